// Package app wires configuration into a running engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tatianab/read-the-room/internal/config"
	"github.com/tatianab/read-the-room/internal/engine"
	"github.com/tatianab/read-the-room/internal/leaderboard"
	"github.com/tatianab/read-the-room/internal/llm"
	"github.com/tatianab/read-the-room/internal/scoring"
	"github.com/tatianab/read-the-room/internal/session"
)

// App holds the long-lived parts of a running game.
type App struct {
	Engine    *engine.Engine
	Sessions  *session.Manager
	Board     leaderboard.Board
	Generator llm.Generator
}

// New builds the model client, session store, leaderboard and engine
// described by cfg.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	gen, err := llm.NewGenerator(ctx, cfg.Provider, cfg.APIKey(), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	store, err := session.Open(session.WithDSN(cfg.StoreDSN), session.WithTTL(cfg.SessionTTL))
	if err != nil {
		gen.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	sessions := session.NewManager(store, cfg.SessionTTL)

	a := &App{Sessions: sessions, Generator: gen}

	var opts []engine.Option
	if cfg.LeaderboardEnabled() {
		rec, err := leaderboard.NewSupabaseRecorder(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			slog.Warn("leaderboard disabled", "error", err)
		} else {
			a.Board = rec
			opts = append(opts, engine.WithRecorder(rec))
		}
	}
	if cfg.HasSeed {
		opts = append(opts, engine.WithNoise(scoring.NewRandNoise(cfg.Seed)))
	}

	a.Engine = engine.New(sessions, llm.NewClassifier(gen), llm.NewNarrator(gen), opts...)
	slog.Info("engine ready",
		"provider", cfg.Provider,
		"store", session.DetectDSNType(cfg.StoreDSN),
		"leaderboard", a.Board != nil)
	return a, nil
}

// Close releases the store and the model client.
func (a *App) Close() error {
	return errors.Join(a.Sessions.Close(), a.Generator.Close())
}
