// Package main provides the entry point for asn1_ber_server, the BER
// TCP ingest server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obaber/berd/internal/berserver"
	"github.com/obaber/berd/internal/config"
	"github.com/obaber/berd/internal/ingest"
	"github.com/obaber/berd/internal/logging"
	"github.com/obaber/berd/internal/metrics"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses flags, builds the ingest receiver, and blocks until a
// shutdown signal arrives. Separated from main for testability.
func run(args []string) int {
	fs := flag.NewFlagSet("asn1_ber_server", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var binds stringSliceFlag
	fs.Var(&binds, "bind", "ip:port or ip:minport-maxport to listen on (repeatable)")
	numWorkers := fs.Int("number-workers", 0, "worker count, 1..32 (overrides config)")
	tempDir := fs.String("temp-dir", "", "directory for in-progress output files (overrides config)")
	finalDir := fs.String("final-dir", "", "directory for completed output files (overrides config)")
	maxFileSize := fs.Int64("max-file-size", 0, "rotate after this many bytes, 1..4194304 (overrides config)")
	maxFileAgeSec := fs.Int("max-file-age", 0, "rotate after this many seconds since the last write, 1..3600 (overrides config)")
	configFile := fs.String("config", "", "path to a YAML configuration file")
	metricsAddr := fs.String("metrics-addr", "", "address to serve /metrics on (overrides config; empty disables)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asn1_ber_server: %v\n", err)
		return 1
	}
	applyOverrides(cfg, binds, *numWorkers, *tempDir, *finalDir, *maxFileSize, *maxFileAgeSec, *metricsAddr)

	if errs := config.ValidateIngestConfig(cfg); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "asn1_ber_server: invalid configuration:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
		return 1
	}

	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: cfg.Logging.Output})
	reg := metrics.New()

	var metricsServer *http.Server
	if cfg.Metrics.Addr != "" {
		metricsServer = startMetricsServer(cfg.Metrics.Addr, reg, logger)
		defer metricsServer.Close()
	}

	bindSpecs := make([]ingest.BindSpec, 0, len(cfg.Binds))
	for _, b := range cfg.Binds {
		spec, err := ingest.ParseBindSpec(b)
		if err != nil {
			fmt.Fprintf(os.Stderr, "asn1_ber_server: %v\n", err)
			return 1
		}
		bindSpecs = append(bindSpecs, spec)
	}

	rotation := berserver.RotationConfig{
		TempDir:     cfg.TempDir,
		FinalDir:    cfg.FinalDir,
		MaxFileSize: cfg.MaxFileSize,
		MaxFileAge:  cfg.MaxFileAge,
	}
	factory := berserver.NewCallbacksFactory(rotation, reg, logger)
	receiver := ingest.NewReceiver(bindSpecs, cfg.NumWorkers, factory, reg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting ingest server", "binds", cfg.Binds, "workers", cfg.NumWorkers)
	if err := receiver.Run(ctx); err != nil {
		logger.Error("ingest server exited with an error", "error", err)
		return 1
	}
	logger.Info("ingest server stopped")
	return 0
}

func loadConfig(path string) (*config.IngestConfig, error) {
	if path == "" {
		return config.DefaultIngestConfig(), nil
	}
	return config.LoadIngestConfig(path)
}

func applyOverrides(cfg *config.IngestConfig, binds []string, numWorkers int, tempDir, finalDir string, maxFileSize int64, maxFileAgeSec int, metricsAddr string) {
	if len(binds) > 0 {
		cfg.Binds = binds
	}
	if numWorkers > 0 {
		cfg.NumWorkers = numWorkers
	}
	if tempDir != "" {
		cfg.TempDir = tempDir
	}
	if finalDir != "" {
		cfg.FinalDir = finalDir
	}
	if maxFileSize > 0 {
		cfg.MaxFileSize = maxFileSize
	}
	if maxFileAgeSec > 0 {
		cfg.MaxFileAge = time.Duration(maxFileAgeSec) * time.Second
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
}

func startMetricsServer(addr string, reg *metrics.Registry, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Prometheus(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("metrics server listening", "addr", addr)
	return srv
}
