package config

import "time"

// IngestConfig holds the complete asn1_ber_server configuration.
type IngestConfig struct {
	Binds       []string      `yaml:"binds"`
	NumWorkers  int           `yaml:"numWorkers"`
	TempDir     string        `yaml:"tempDir"`
	FinalDir    string        `yaml:"finalDir"`
	MaxFileSize int64         `yaml:"maxFileSize"`
	MaxFileAge  time.Duration `yaml:"maxFileAge"`
	Logging     LogConfig     `yaml:"logging"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig holds Prometheus exposition configuration.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the /metrics endpoint
}
