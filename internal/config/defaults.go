package config

import "time"

// DefaultIngestConfig returns an IngestConfig with sensible default values.
// A YAML file, when present, overrides these, and CLI flags override both.
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		Binds:       []string{":4300"},
		NumWorkers:  4,
		TempDir:     "",
		FinalDir:    "",
		MaxFileSize: 4 * 1024 * 1024,
		MaxFileAge:  5 * time.Minute,
		Logging: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Addr: "",
		},
	}
}
