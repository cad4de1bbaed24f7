package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/goatminify/goatminify/internal/config"
	"github.com/goatminify/goatminify/internal/daemon"
	"github.com/goatminify/goatminify/internal/logging"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	version = "0.3.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	projectRoot := flag.String("project", ".", "Project root directory")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gmd %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	// A .env file is optional; GOATMINIFY_* variables may come from it.
	_ = godotenv.Load()

	cfg, err := config.NewLoader(*projectRoot).LoadOrDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateOrError(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	d, err := daemon.New(*projectRoot, cfg, logger)
	if err != nil {
		logger.Error("failed to create daemon", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), daemon.ShutdownSignals()...)
	defer stop()

	logger.Info("starting gmd",
		zap.String("version", version),
		zap.String("project", *projectRoot),
		zap.String("addr", cfg.Daemon.Address()))
	if err := d.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("daemon error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("gmd stopped")
}
