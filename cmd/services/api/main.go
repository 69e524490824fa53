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
	"github.com/soltixdb/eda/internal/handlers"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/queue"
	"github.com/soltixdb/eda/internal/router"
	"github.com/soltixdb/eda/internal/store"
	"github.com/soltixdb/eda/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Local development: EDA_* variables may live in .env
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	if cfg.IsDevelopment() {
		logger.Debug("Development mode", "config", *configPath)
	}
	logger.Info("API service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	algo, err := compression.ParseAlgorithm(cfg.Queue.Compression)
	if err != nil {
		logger.Fatal("Invalid queue compression", "error", err)
	}
	codec, err := compression.NewCodec(algo)
	if err != nil {
		logger.Fatal("Failed to create codec", "error", err)
	}

	// Queue is optional: reports are only published and jobs only accepted
	// when it is enabled
	var publisher queue.Publisher
	if cfg.Queue.Enabled {
		logger.Info("Connecting to Queue", "type", queue.Kind(cfg.Queue), "url", cfg.Queue.URL)
		publisher, err = queue.NewPublisher(cfg.Queue)
		if err != nil {
			logger.Fatal("Failed to connect to Queue", "error", err)
		}
		defer func() { _ = publisher.Close() }()
		logger.Info("Queue connection established")
	}

	var results handlers.ResultReader
	if cfg.Postgres.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), utils.StoreTimeout)
		db, err := store.Open(ctx, cfg.Postgres)
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to Postgres", "error", err)
		}
		defer func() { _ = db.Close() }()
		results = db
	}

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	app := router.New(logger, cfg, publisher, codec, results)

	// Start server in goroutine
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
