package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ukorgs/config"
	"ukorgs/export"
	"ukorgs/importer"
	"ukorgs/models"
	"ukorgs/pipeline"
	"ukorgs/store"
)

func main() {
	var (
		inputDir   = flag.String("input", "", "Directory with per-source raw batches (<source>.json|.xlsx|.html)")
		configPath = flag.String("config", "", "Path to JSON config file (optional)")
		outPath    = flag.String("out", "", "Path for the JSON artifact (default from config)")
		dbPath     = flag.String("db", "", "Path to SQLite database (default from config; empty string in config disables persistence)")
		workbook   = flag.String("workbook", "", "Optional path for an Excel conflict review workbook")
		verbose    = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *inputDir == "" {
		fmt.Println("Usage: aggregate [options]")
		fmt.Println("\nOptions:")
		fmt.Println("  -input <dir>      Directory with per-source raw batches")
		fmt.Println("  -config <path>    JSON config file")
		fmt.Println("  -out <path>       JSON artifact output path")
		fmt.Println("  -db <path>        SQLite database path")
		fmt.Println("  -workbook <path>  Excel conflict review workbook")
		fmt.Println("  -verbose          Verbose output")
		fmt.Println("\nBatch files are named after their source type, e.g. govuk-api.json,")
		fmt.Println("nhs-digital-ods.xlsx or police-forces.html.")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outPath != "" {
		cfg.ArtifactPath = *outPath
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	setupLogging(cfg.LogLevel, *verbose)

	pipe := pipeline.New(cfg)

	batches, err := loadBatches(*inputDir)
	if err != nil {
		log.Fatalf("Failed to load input batches: %v", err)
	}
	if len(batches) == 0 {
		log.Fatalf("No batch files found in %s", *inputDir)
	}

	for _, batch := range batches {
		if *verbose {
			log.Printf("Loaded %d records from %s", len(batch.records), batch.source)
		}
		pipe.Ingest(batch.source, batch.records, batch.retrievedAt)
	}

	pipe.Run()
	result := pipe.Result()

	if err := export.WriteArtifact(result, cfg.ArtifactPath); err != nil {
		log.Fatalf("Failed to write artifact: %v", err)
	}

	if *workbook != "" {
		if err := export.WriteReviewWorkbook(result, *workbook); err != nil {
			log.Fatalf("Failed to write review workbook: %v", err)
		}
	}

	if cfg.DatabasePath != "" {
		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer st.Close()

		runID, err := st.SaveRun(result, pipe.Trail().All())
		if err != nil {
			log.Fatalf("Failed to persist run: %v", err)
		}
		if *verbose {
			log.Printf("Persisted run %d to %s", runID, cfg.DatabasePath)
		}
	}

	printSummary(result)

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

type sourceBatch struct {
	source      models.DataSourceType
	records     []models.RawRecord
	retrievedAt time.Time
}

// loadBatches reads every batch file in dir. The file stem names the source
// type and the extension selects the decoder. Files with unknown extensions
// are skipped with a warning.
func loadBatches(dir string) ([]sourceBatch, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var batches []sourceBatch
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		path := filepath.Join(dir, name)

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}

		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}

		var records []models.RawRecord
		switch ext {
		case ".json":
			records, err = importer.DecodeJSONRecords(file)
		case ".xlsx":
			records, err = importer.DecodeWorkbook(file)
		case ".html", ".htm":
			records, err = importer.DecodeHTMLTable(file, "file://"+path)
		default:
			file.Close()
			log.Printf("Skipping %s: unsupported extension %q", name, ext)
			continue
		}
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}

		batches = append(batches, sourceBatch{
			source:      models.DataSourceType(stem),
			records:     records,
			retrievedAt: info.ModTime().UTC(),
		})
	}

	sort.Slice(batches, func(i, j int) bool { return batches[i].source < batches[j].source })
	return batches, nil
}

func setupLogging(level string, verbose bool) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

func printSummary(result models.ProcessingResult) {
	fmt.Printf("\n=== Aggregation Results ===\n")
	fmt.Printf("Organisations: %d\n", result.Metadata.Statistics.TotalOrganisations)
	fmt.Printf("Duplicates merged: %d\n", result.Metadata.Statistics.DuplicatesFound)
	fmt.Printf("Conflicts detected: %d\n", result.Metadata.Statistics.ConflictsDetected)
	fmt.Printf("Errors: %d\n", len(result.Errors))

	if len(result.Metadata.Statistics.OrganisationsByType) > 0 {
		fmt.Printf("\nBy type:\n")
		types := make([]string, 0, len(result.Metadata.Statistics.OrganisationsByType))
		for t := range result.Metadata.Statistics.OrganisationsByType {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %s: %d\n", t, result.Metadata.Statistics.OrganisationsByType[models.OrganisationType(t)])
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\n=== Errors (first 20) ===\n")
		max := 20
		if len(result.Errors) < max {
			max = len(result.Errors)
		}
		for i := 0; i < max; i++ {
			e := result.Errors[i]
			fmt.Printf(" - [%s] %s: %s\n", e.Stage, e.Source, e.Message)
		}
		if len(result.Errors) > max {
			fmt.Printf("... and %d more errors\n", len(result.Errors)-max)
		}
	}
}
