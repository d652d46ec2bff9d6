package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgo/taskflow/internal/app"
	"github.com/forgo/taskflow/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging; text output is easier to read locally
	logger := app.NewJSONLogger(os.Stdout, cfg.LogLevel)
	if cfg.IsDevelopment() {
		logger = app.NewTextLogger(os.Stdout, cfg.LogLevel)
	}
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("opened store",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("key_scope", cfg.Storage.KeyScope),
		slog.Bool("production", cfg.IsProduction()),
	)

	err = a.Serve(ctx)
	_ = a.Close()
	if err != nil {
		slog.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
