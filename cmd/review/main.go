package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"ukorgs/config"
	"ukorgs/server"
	"ukorgs/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to JSON config file (optional)")
		dbPath     = flag.String("db", "", "Path to SQLite database (default from config)")
		port       = flag.String("port", "", "Listen port (default from config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *port != "" {
		cfg.Port = *port
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	srv := server.New(cfg, st)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
