package config

import (
	"fmt"
	"os"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateIngestConfig validates cfg against the constraints the
// asn1_ber_server CLI flags place on each other. An empty slice means
// cfg is valid.
func ValidateIngestConfig(cfg *IngestConfig) []error {
	var errs []error

	if len(cfg.Binds) == 0 {
		errs = append(errs, ValidationError{"binds", "at least one bind address is required"})
	}

	if cfg.NumWorkers < 1 || cfg.NumWorkers > 32 {
		errs = append(errs, ValidationError{"numWorkers", "must be between 1 and 32"})
	}

	if cfg.MaxFileSize < 1 || cfg.MaxFileSize > 4*1024*1024 {
		errs = append(errs, ValidationError{"maxFileSize", "must be between 1 and 4*1024*1024 bytes"})
	}

	if cfg.MaxFileAge < time.Second || cfg.MaxFileAge > time.Hour {
		errs = append(errs, ValidationError{"maxFileAge", "must be between 1s and 3600s"})
	}

	errs = append(errs, validateDir("tempDir", cfg.TempDir)...)
	errs = append(errs, validateDir("finalDir", cfg.FinalDir)...)

	return errs
}

func validateDir(field, path string) []error {
	if path == "" {
		return []error{ValidationError{field, "is required"}}
	}
	info, err := os.Stat(path)
	if err != nil {
		return []error{ValidationError{field, fmt.Sprintf("does not exist: %v", err)}}
	}
	if !info.IsDir() {
		return []error{ValidationError{field, "is not a directory"}}
	}
	return nil
}
