package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/soltixdb/eda/internal/compression"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/queue"
	"github.com/soltixdb/eda/internal/services"
	"github.com/soltixdb/eda/internal/store"
	"github.com/soltixdb/eda/internal/utils"
	"github.com/soltixdb/eda/internal/worker"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	_ = godotenv.Load()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Worker service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// 3. Connect to Queue
	logger.Info("Connecting to Queue", "type", queue.Kind(cfg.Queue), "url", cfg.Queue.URL)
	q, err := queue.NewQueue(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "error", err)
	}
	defer func() { _ = q.Close() }()

	algo, err := compression.ParseAlgorithm(cfg.Queue.Compression)
	if err != nil {
		logger.Fatal("Invalid queue compression", "error", err)
	}
	codec, err := compression.NewCodec(algo)
	if err != nil {
		logger.Fatal("Failed to create codec", "error", err)
	}

	// 4. Result store (optional)
	var results worker.ResultStore
	if cfg.Postgres.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), utils.StoreTimeout)
		db, err := store.Open(ctx, cfg.Postgres)
		if err == nil {
			err = db.EnsureSchema(ctx)
		}
		cancel()
		if err != nil {
			logger.Fatal("Failed to prepare Postgres", "error", err)
		}
		defer func() { _ = db.Close() }()
		results = db
	} else {
		logger.Warn("Result store disabled - jobs must carry their sample")
	}

	// 5. Start worker
	svc := services.NewSummaryService(logger, cfg.Analysis, cfg.Generator)
	w := worker.New(logger, cfg.Worker, q, codec, svc, results)
	if err := w.Start(); err != nil {
		logger.Fatal("Failed to start worker", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	if err := w.Stop(); err != nil {
		logger.Error("Failed to stop worker", "error", err)
	}
	logger.Info("Worker exited")
}
