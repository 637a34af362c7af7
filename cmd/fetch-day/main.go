package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Vodeneev/ticketbet/internal/pipeline"
	pkgconfig "github.com/Vodeneev/ticketbet/internal/pkg/config"
	"github.com/Vodeneev/ticketbet/internal/pkg/logging"
)

const defaultConfigPath = "configs/production.yaml"

type options struct {
	configPath string
	date       string
}

func main() {
	if err := run(); err != nil {
		slog.Error("Fetch failed", "error", err)
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

	if _, err := logging.SetupLogger(&appConfig.Logging, "fetch-day"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	}

	day, err := resolveDay(opts.date)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := pipeline.NewMorning(appConfig).FetchDay(ctx, day)
	if err != nil {
		return err
	}

	// Print the report so the tool is usable from a shell.
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fetch report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func parseFlags() options {
	var opts options

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&opts.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&opts.date, "date", "", "Day to fetch as YYYY-MM-DD. Empty = today (UTC)")
	flag.Parse()
	return opts
}

func resolveDay(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -date %q: %w", s, err)
	}
	return day, nil
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
