// Package engine runs a date: it feeds each player message through the
// classifier, the scoring rules and the narrator, and commits the result
// as one atomic session update.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/tatianab/read-the-room/internal/models"
	"github.com/tatianab/read-the-room/internal/scoring"
	"github.com/tatianab/read-the-room/internal/session"
)

// Classifier tags a player message.
type Classifier interface {
	Classify(ctx context.Context, input string, mode models.InputMode, recent []models.Turn) (models.Tag, error)
}

// Narrator writes the character's reply.
type Narrator interface {
	Narrate(ctx context.Context, req models.NarrationRequest) (string, error)
}

// Recorder receives every finished date.
type Recorder interface {
	Record(ctx context.Context, state *models.GameState) error
}

// Engine is safe for concurrent use across sessions.
type Engine struct {
	sessions   *session.Manager
	classifier Classifier
	narrator   Narrator
	noise      scoring.Noise
	recorder   Recorder
	llmTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithNoise sets the scoring jitter source.
func WithNoise(n scoring.Noise) Option {
	return func(e *Engine) {
		e.noise = n
	}
}

// WithRecorder sets where finished dates are reported.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithLLMTimeout bounds each classifier and narrator call.
func WithLLMTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.llmTimeout = d
	}
}

// DefaultLLMTimeout bounds model calls unless overridden.
const DefaultLLMTimeout = 30 * time.Second

func New(sessions *session.Manager, classifier Classifier, narrator Narrator, opts ...Option) *Engine {
	e := &Engine{
		sessions:   sessions,
		classifier: classifier,
		narrator:   narrator,
		noise:      scoring.NewRandNoise(uint64(time.Now().UnixNano())),
		llmTimeout: DefaultLLMTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewGame starts a date. Co-op dates carry a handler budget.
func (e *Engine) NewGame(ctx context.Context, coOp bool) (*models.GameState, error) {
	st := models.NewGameState(session.NewID(), e.sessions.Now())
	if coOp {
		st.CoOp = true
		st.HandlerBudget = HandlerStartBudget
	}
	if err := e.sessions.Create(ctx, st); err != nil {
		return nil, err
	}
	slog.Info("new game", "id", st.ID, "co_op", coOp)
	return st, nil
}

// Game returns the current state of a session.
func (e *Engine) Game(ctx context.Context, id string) (*models.GameState, error) {
	return e.sessions.Get(ctx, id)
}

// DeleteGame removes a session.
func (e *Engine) DeleteGame(ctx context.Context, id string) error {
	if _, err := e.sessions.Get(ctx, id); err != nil {
		return err
	}
	return e.sessions.Delete(ctx, id)
}

// History returns the turns played so far, oldest first.
func (e *Engine) History(ctx context.Context, id string) ([]models.Turn, error) {
	st, err := e.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return st.History, nil
}

// Breakdown returns the post-game report as markdown.
func (e *Engine) Breakdown(ctx context.Context, id string) (string, error) {
	st, err := e.sessions.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !st.GameOver {
		return "", ErrGameNotOver
	}
	return BuildBreakdown(st), nil
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.llmTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.llmTimeout)
}

// record reports a finished date. Failures never fail the turn.
func (e *Engine) record(ctx context.Context, st *models.GameState) {
	if e.recorder == nil || !st.GameOver {
		return
	}
	if err := e.recorder.Record(ctx, st); err != nil {
		slog.Warn("failed to record result", "id", st.ID, "ending", st.Ending, "error", err)
	}
}
