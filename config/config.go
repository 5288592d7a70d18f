package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"ukorgs/models"
)

// Config carries every tunable of the pipeline and its supporting tools.
// It is immutable once loaded: components receive it by value or keep their
// own copy, never a shared mutable pointer.
type Config struct {
	// Matching thresholds
	DuplicateThreshold float64 `json:"duplicate_threshold"`
	MinCompleteness    float64 `json:"min_completeness"`
	LowConfidence      float64 `json:"low_confidence"`

	// Per-source confidence overrides; unset sources use the catalogue
	// defaults from the models package.
	SourceConfidence map[models.DataSourceType]float64 `json:"source_confidence,omitempty"`

	// Expected record counts per source, compared as a warning only. The
	// published counts for several registers are known to disagree with
	// what the endpoints actually return.
	ExpectedCounts map[models.DataSourceType]int `json:"expected_counts,omitempty"`

	// Mapping workers used for per-source fan-out; 1 disables parallelism.
	MappingWorkers int `json:"mapping_workers"`

	// Review server
	Port string `json:"port"`

	// Persistence
	DatabasePath string `json:"database_path"`
	ArtifactPath string `json:"artifact_path"`

	// Logging
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() *Config {
	return &Config{
		DuplicateThreshold: 0.90,
		MinCompleteness:    0.60,
		LowConfidence:      0.50,
		MappingWorkers:     4,
		Port:               "8080",
		DatabasePath:       "ukorgs.db",
		ArtifactPath:       "organisations.json",
		LogLevel:           "INFO",
	}
}

// Load reads configuration from an optional JSON file, then applies
// environment overrides on top. A missing file is not an error; defaults
// apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("UKORGS_PORT", cfg.Port)
	cfg.DatabasePath = getEnv("UKORGS_DATABASE_PATH", cfg.DatabasePath)
	cfg.ArtifactPath = getEnv("UKORGS_ARTIFACT_PATH", cfg.ArtifactPath)
	cfg.LogLevel = getEnv("UKORGS_LOG_LEVEL", cfg.LogLevel)
	cfg.DuplicateThreshold = getEnvFloat("UKORGS_DUPLICATE_THRESHOLD", cfg.DuplicateThreshold)
	cfg.MinCompleteness = getEnvFloat("UKORGS_MIN_COMPLETENESS", cfg.MinCompleteness)
	cfg.LowConfidence = getEnvFloat("UKORGS_LOW_CONFIDENCE", cfg.LowConfidence)
	cfg.MappingWorkers = getEnvInt("UKORGS_MAPPING_WORKERS", cfg.MappingWorkers)
}

// ConfidenceFor resolves the confidence for a source, preferring an explicit
// override and falling back to the source catalogue default.
func (c *Config) ConfidenceFor(source models.DataSourceType) float64 {
	if v, ok := c.SourceConfidence[source]; ok {
		return v
	}
	return source.DefaultConfidence()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
