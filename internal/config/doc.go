// Package config provides configuration loading and validation for the BER
// ingest server.
//
// # Overview
//
// The config package loads IngestConfig from a YAML file and validates it
// against the constraints the ingest server's CLI flags also enforce:
//
//   - 1 to 32 workers
//   - a file size rotation threshold up to 4 MiB
//   - a file age rotation threshold up to one hour
//   - existing, directory temp and final paths
//
// # Loading Configuration
//
//	cfg, err := config.LoadIngestConfig("/etc/berd/berd.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or start from defaults and apply CLI overrides:
//
//	cfg := config.DefaultIngestConfig()
//
// # Example Configuration
//
//	binds:
//	  - "0.0.0.0:4300"
//	  - "[::]:4300"
//	numWorkers: 4
//	tempDir: "/var/spool/berd/tmp"
//	finalDir: "/var/spool/berd/final"
//	maxFileSize: 4194304
//	maxFileAge: 5m
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stdout"
package config
