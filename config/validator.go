package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate checks the configuration for values that would make a run
// meaningless or non-deterministic.
func (c *Config) Validate() error {
	var errors []string

	if c.DuplicateThreshold < 0 || c.DuplicateThreshold > 1 {
		errors = append(errors, fmt.Sprintf("duplicate threshold must be in [0,1], got %v", c.DuplicateThreshold))
	}
	if c.MinCompleteness < 0 || c.MinCompleteness > 1 {
		errors = append(errors, fmt.Sprintf("min completeness must be in [0,1], got %v", c.MinCompleteness))
	}
	if c.LowConfidence < 0 || c.LowConfidence > 1 {
		errors = append(errors, fmt.Sprintf("low confidence must be in [0,1], got %v", c.LowConfidence))
	}
	for source, conf := range c.SourceConfidence {
		if conf < 0 || conf > 1 {
			errors = append(errors, fmt.Sprintf("confidence override for %s must be in [0,1], got %v", source, conf))
		}
	}
	if c.MappingWorkers < 1 {
		errors = append(errors, "mapping workers must be at least 1")
	}

	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errors = append(errors, fmt.Sprintf("unknown log level: %s", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}
