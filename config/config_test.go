package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ukorgs/models"
)

// TestDefaultConfig checks the shipped defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DuplicateThreshold != 0.90 {
		t.Errorf("DuplicateThreshold = %v, want 0.90", cfg.DuplicateThreshold)
	}
	if cfg.MinCompleteness != 0.60 {
		t.Errorf("MinCompleteness = %v, want 0.60", cfg.MinCompleteness)
	}
	if cfg.LowConfidence != 0.50 {
		t.Errorf("LowConfidence = %v, want 0.50", cfg.LowConfidence)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

// TestLoad_File checks JSON file values land on top of defaults.
func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"duplicate_threshold": 0.85,
		"expected_counts": {"govuk-api": 600},
		"source_confidence": {"parish-councils": 0.4},
		"port": "9090"
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DuplicateThreshold != 0.85 {
		t.Errorf("DuplicateThreshold = %v, want 0.85", cfg.DuplicateThreshold)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	// Untouched fields keep their defaults.
	if cfg.MinCompleteness != 0.60 {
		t.Errorf("MinCompleteness = %v, want default 0.60", cfg.MinCompleteness)
	}
	if cfg.ExpectedCounts[models.SourceGovUKAPI] != 600 {
		t.Errorf("ExpectedCounts[govuk-api] = %d, want 600", cfg.ExpectedCounts[models.SourceGovUKAPI])
	}
}

// TestLoad_MissingFileUsesDefaults checks a nonexistent path is not an error.
func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file must fall back to defaults, got %v", err)
	}
	if cfg.DuplicateThreshold != 0.90 {
		t.Errorf("DuplicateThreshold = %v, want default", cfg.DuplicateThreshold)
	}
}

// TestLoad_EnvOverrides checks environment variables win over file values.
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("UKORGS_PORT", "7070")
	t.Setenv("UKORGS_DUPLICATE_THRESHOLD", "0.95")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Port = %q, want env override 7070", cfg.Port)
	}
	if cfg.DuplicateThreshold != 0.95 {
		t.Errorf("DuplicateThreshold = %v, want env override 0.95", cfg.DuplicateThreshold)
	}
}

// TestValidate_Errors checks out-of-range values are rejected with a message
// naming the field.
func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"threshold above one", func(c *Config) { c.DuplicateThreshold = 1.5 }, "duplicate threshold"},
		{"negative completeness", func(c *Config) { c.MinCompleteness = -0.1 }, "min completeness"},
		{"zero workers", func(c *Config) { c.MappingWorkers = 0 }, "mapping workers"},
		{"empty port", func(c *Config) { c.Port = "" }, "port is required"},
		{"non-numeric port", func(c *Config) { c.Port = "http" }, "invalid port"},
		{"bad log level", func(c *Config) { c.LogLevel = "LOUD" }, "log level"},
		{"bad override", func(c *Config) {
			c.SourceConfidence = map[models.DataSourceType]float64{models.SourceGovUKAPI: 2.0}
		}, "confidence override"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

// TestConfidenceFor checks override-then-catalogue resolution.
func TestConfidenceFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SourceConfidence = map[models.DataSourceType]float64{
		models.SourceParishCouncils: 0.3,
	}

	if got := cfg.ConfidenceFor(models.SourceParishCouncils); got != 0.3 {
		t.Errorf("override not applied: got %v", got)
	}
	if got := cfg.ConfidenceFor(models.SourceGovUKAPI); got != 1.0 {
		t.Errorf("catalogue fallback: got %v, want 1.0", got)
	}
}
