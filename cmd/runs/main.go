package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"ukorgs/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "list":
		handleList()
	case "show":
		handleShow()
	case "prune":
		handlePrune()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Runs - CLI utility for managing persisted pipeline runs")
	fmt.Println()
	fmt.Println("Usage: runs <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list [--db=path]              List all persisted runs")
	fmt.Println("  show <run-id> [--db=path]     Show one run's source breakdown")
	fmt.Println("  prune [--db=path] [--keep=N]  Delete all but the N newest runs")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  runs list")
	fmt.Println("  runs show 3 --db=data/organisations.db")
	fmt.Println("  runs prune --keep=5")
}

func openStore(dbPath string) *store.Store {
	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open store %s: %v", dbPath, err)
	}
	return st
}

func handleList() {
	listFlags := flag.NewFlagSet("list", flag.ExitOnError)
	dbPath := listFlags.String("db", "data/organisations.db", "Path to the store database")
	listFlags.Parse(os.Args[2:])

	st := openStore(*dbPath)
	defer st.Close()

	runs, err := st.Runs()
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs persisted yet.")
		return
	}

	fmt.Printf("Found %d runs:\n\n", len(runs))
	for _, run := range runs {
		fmt.Printf("Run %d  processed %s\n", run.ID, run.ProcessedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Organisations: %d, Duplicates: %d, Conflicts: %d\n",
			run.TotalOrganisations, run.DuplicatesFound, run.ConflictsDetected)
		fmt.Println()
	}
}

func handleShow() {
	if len(os.Args) < 3 {
		fmt.Println("Error: run id is required")
		fmt.Println("Usage: runs show <run-id> [--db=path]")
		os.Exit(1)
	}

	runID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		log.Fatalf("Invalid run id %q: %v", os.Args[2], err)
	}

	showFlags := flag.NewFlagSet("show", flag.ExitOnError)
	dbPath := showFlags.String("db", "data/organisations.db", "Path to the store database")
	showFlags.Parse(os.Args[3:])

	st := openStore(*dbPath)
	defer st.Close()

	stats, err := st.SourceStatsByRun(runID)
	if err != nil {
		log.Fatalf("Failed to load source stats: %v", err)
	}
	if len(stats) == 0 {
		log.Fatalf("Run %d has no source stats (does it exist?)", runID)
	}

	fmt.Printf("Run %d source breakdown:\n\n", runID)
	for _, stat := range stats {
		fmt.Printf("%s\n", stat.Source)
		fmt.Printf("  Records: %d, Retrieved: %s\n",
			stat.RecordCount, stat.RetrievedAt.Format("2006-01-02 15:04:05"))
		for _, msg := range stat.Errors {
			fmt.Printf("  Error: %s\n", msg)
		}
		fmt.Println()
	}

	conflicts, err := st.Conflicts(runID, true)
	if err != nil {
		log.Fatalf("Failed to load conflicts: %v", err)
	}
	fmt.Printf("Unresolved conflicts: %d\n", len(conflicts))
}

func handlePrune() {
	pruneFlags := flag.NewFlagSet("prune", flag.ExitOnError)
	dbPath := pruneFlags.String("db", "data/organisations.db", "Path to the store database")
	keep := pruneFlags.Int("keep", 5, "Number of newest runs to keep")
	pruneFlags.Parse(os.Args[2:])

	if *keep < 1 {
		log.Fatalf("--keep must be at least 1")
	}

	st := openStore(*dbPath)
	defer st.Close()

	runs, err := st.Runs()
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}

	if len(runs) <= *keep {
		fmt.Printf("Nothing to prune: %d runs persisted, keeping %d.\n", len(runs), *keep)
		return
	}

	deleted := 0
	for _, run := range runs[*keep:] {
		if err := st.DeleteRun(run.ID); err != nil {
			log.Printf("Failed to delete run %d: %v", run.ID, err)
			continue
		}
		fmt.Printf("Deleted run %d (processed %s)\n", run.ID, run.ProcessedAt.Format("2006-01-02 15:04:05"))
		deleted++
	}

	fmt.Printf("\nPrune completed. Deleted %d runs, kept %d.\n", deleted, *keep)
}
