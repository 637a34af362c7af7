package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Vodeneev/ticketbet/internal/pipeline"
	pkgconfig "github.com/Vodeneev/ticketbet/internal/pkg/config"
	"github.com/Vodeneev/ticketbet/internal/pkg/logging"
)

const defaultConfigPath = "configs/production.yaml"

type options struct {
	configPath string
	offline    bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("Evaluation failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Error loading .env file", "error", err)
	}

	opts := parseFlags()
	slog.Info("Loading config", "path", opts.configPath)

	appConfig, err := pkgconfig.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := logging.SetupLogger(&appConfig.Logging, "evaluate-tickets"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	// The day to settle comes from the published tickets document.
	return pipeline.NewEvaluation(appConfig).Run(ctx, opts.offline)
}

func parseFlags() options {
	var opts options

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&opts.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.BoolVar(&opts.offline, "offline", false, "Settle from the cached snapshot instead of fetching results")
	flag.Parse()
	return opts
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
		}
	}()
	return ctx, cancel
}
