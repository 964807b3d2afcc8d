package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tatianab/read-the-room/internal/api"
	"github.com/tatianab/read-the-room/internal/app"
	"github.com/tatianab/read-the-room/internal/config"
)

// sweepInterval is how often idle sessions are expired.
const sweepInterval = time.Minute

func main() {
	initializeLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Provider, "provider", cfg.Provider, "model provider: gemini or openai (overrides $RTR_PROVIDER)")
	flag.StringVar(&cfg.Model, "model", cfg.Model, "model name (overrides $RTR_MODEL)")
	flag.StringVar(&cfg.StoreDSN, "store", cfg.StoreDSN, "session store DSN (overrides $RTR_STORE_DSN)")
	flag.StringVar(&cfg.APIAddr, "addr", cfg.APIAddr, "API listen address (overrides $RTR_API_ADDR)")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "idle session lifetime (overrides $RTR_SESSION_TTL)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create engine", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	go a.Sessions.Run(ctx, sweepInterval)

	opts := []api.Option{api.WithAddr(cfg.APIAddr)}
	if a.Board != nil {
		opts = append(opts, api.WithLeaderboard(a.Board))
	}
	if err := api.NewServer(a.Engine, opts...).Run(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited")
}

func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}
