package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadIngestConfig reads path, unmarshals it onto DefaultIngestConfig, and
// validates the result. A missing or empty Logging/Metrics section in the
// file keeps the defaults for that section.
func LoadIngestConfig(path string) (*IngestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultIngestConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if errs := ValidateIngestConfig(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("config: invalid configuration: %w", errs[0])
	}
	return cfg, nil
}
