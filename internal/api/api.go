package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tatianab/read-the-room/internal/engine"
	"github.com/tatianab/read-the-room/internal/leaderboard"
)

// DefaultAddr is where the server listens unless told otherwise.
const DefaultAddr = ":8080"

// Server exposes an Engine over HTTP.
type Server struct {
	engine *engine.Engine
	board  leaderboard.Board
	addr   string
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLeaderboard enables the leaderboard route.
func WithLeaderboard(b leaderboard.Board) Option {
	return func(s *Server) {
		s.board = b
	}
}

func NewServer(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{engine: eng, addr: DefaultAddr}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.createGameHandler)
	mux.HandleFunc("GET /api/games/{id}", s.getGameHandler)
	mux.HandleFunc("DELETE /api/games/{id}", s.deleteGameHandler)
	mux.HandleFunc("POST /api/games/{id}/turn", s.turnHandler)
	mux.HandleFunc("POST /api/games/{id}/silence", s.silenceHandler)
	mux.HandleFunc("GET /api/games/{id}/history", s.historyHandler)
	mux.HandleFunc("GET /api/games/{id}/breakdown", s.breakdownHandler)
	mux.HandleFunc("POST /api/games/{id}/abilities", s.abilityHandler)
	mux.HandleFunc("GET /api/leaderboard", s.leaderboardHandler)
	return logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("API server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("request served", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
