package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tudorhoriadaniel/seo-crawler/internal/config"
	"github.com/tudorhoriadaniel/seo-crawler/internal/crawl"
	"github.com/tudorhoriadaniel/seo-crawler/internal/fetch"
	server "github.com/tudorhoriadaniel/seo-crawler/internal/http"
	"github.com/tudorhoriadaniel/seo-crawler/internal/migrate"
	"github.com/tudorhoriadaniel/seo-crawler/internal/store"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	role := flag.String("role", "all", "process role: api|worker|all")
	flag.Parse()

	cfg := config.Load(*configPath)

	// Run migrations on a short-lived connection
	if err := migrate.Run(cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Create a shared *sql.DB with pooling for the Store
	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open db failed: %v", err)
	}
	// Basic pool settings; adjust as needed
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	st := store.New(db)

	// Set up logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	fetcher := fetch.NewClient(fetch.Options{
		Timeout:            time.Duration(cfg.Fetcher.TimeoutMs) * time.Millisecond,
		MaxRedirects:       cfg.Fetcher.MaxRedirects,
		UserAgent:          cfg.Fetcher.UserAgent,
		InsecureSkipVerify: cfg.Fetcher.InsecureSkipVerify,
	})
	orch := crawl.NewOrchestrator(cfg, st, fetcher, logger)
	runner := crawl.NewRunner(cfg, st, orch, logger)

	rootCtx := context.Background()

	switch *role {
	case "api":
		// API-only: crawls are enqueued here and picked up by a worker.
		s := server.NewServer(cfg, st, nil, logger)
		if err := s.Listen(); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	case "worker":
		// Worker-only: poll for pending crawls and block.
		runner.Start(rootCtx)
	case "all":
		// Default: run both API and worker in one process.
		go runner.Start(rootCtx)
		s := server.NewServer(cfg, st, orch, logger)
		if err := s.Listen(); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	default:
		log.Fatalf("invalid role: %s (expected api|worker|all)", *role)
	}
}
