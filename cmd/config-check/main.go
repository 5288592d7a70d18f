package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"ukorgs/config"
	"ukorgs/models"
)

func main() {
	configPath := flag.String("config", "", "Path to the configuration file (optional)")
	flag.Parse()

	fmt.Println("=== Configuration Check ===")
	fmt.Println("")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration loaded")
	fmt.Println("")

	fmt.Println("General:")
	fmt.Printf("  Port: %s\n", cfg.Port)
	fmt.Printf("  Database: %s\n", cfg.DatabasePath)
	fmt.Printf("  Artifact: %s\n", cfg.ArtifactPath)
	fmt.Printf("  Log level: %s\n", cfg.LogLevel)
	fmt.Println("")

	fmt.Println("Pipeline thresholds:")
	fmt.Printf("  Duplicate similarity: %.2f\n", cfg.DuplicateThreshold)
	fmt.Printf("  Minimum completeness: %.2f\n", cfg.MinCompleteness)
	fmt.Printf("  Low confidence cutoff: %.2f\n", cfg.LowConfidence)
	fmt.Printf("  Mapping workers: %d\n", cfg.MappingWorkers)
	fmt.Println("")

	if len(cfg.SourceConfidence) > 0 {
		fmt.Println("Source confidence overrides:")
		sources := make([]string, 0, len(cfg.SourceConfidence))
		for source := range cfg.SourceConfidence {
			sources = append(sources, string(source))
		}
		sort.Strings(sources)
		for _, source := range sources {
			fmt.Printf("  %s: %.2f\n", source, cfg.SourceConfidence[models.DataSourceType(source)])
		}
		fmt.Println("")
	}

	if len(cfg.ExpectedCounts) > 0 {
		fmt.Println("Expected record counts:")
		sources := make([]string, 0, len(cfg.ExpectedCounts))
		for source := range cfg.ExpectedCounts {
			sources = append(sources, string(source))
		}
		sort.Strings(sources)
		for _, source := range sources {
			fmt.Printf("  %s: %d\n", source, cfg.ExpectedCounts[models.DataSourceType(source)])
		}
		fmt.Println("")
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Validation failed: %v\n", err)
		fmt.Println("")
		os.Exit(1)
	}
	fmt.Println("Validation passed")
	fmt.Println("")

	fmt.Println("=== Check Complete ===")
}
