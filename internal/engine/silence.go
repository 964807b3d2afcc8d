package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tatianab/read-the-room/internal/models"
	"github.com/tatianab/read-the-room/internal/scoring"
)

// SilenceResult is the outcome of one silence penalty.
type SilenceResult struct {
	Level         scoring.SilenceLevel `json:"level"`
	Line          string               `json:"line"`
	Stats         models.Stats         `json:"stats"`
	Recovery      models.Recovery      `json:"recovery"`
	GameOver      bool                 `json:"game_over"`
	Ending        models.Ending        `json:"ending,omitempty"`
	EndingMessage string               `json:"ending_message,omitempty"`
}

// Silence applies the penalty for the player going quiet. It goes through
// the same single-writer update as a turn but does not count as one.
// Ghosting ends the date and is never softened.
func (e *Engine) Silence(ctx context.Context, id, level string) (*SilenceResult, error) {
	lvl, err := scoring.ParseSilenceLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSilenceLevel, err)
	}
	penalty, _ := scoring.PenaltyFor(lvl)

	st, err := e.sessions.Update(ctx, id, func(s *models.GameState) error {
		if s.GameOver {
			return ErrGameOver
		}
		if penalty.Ghost {
			s.GameOver = true
			s.Ending = models.EndingGhosted
			s.EndingCause = models.CauseSilence
			s.EndingMessage = scoring.EndingLine(models.EndingGhosted)
			s.Recovery = models.Recovery{}
			return nil
		}
		scoring.ApplySilence(s, penalty)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("silence penalty", "id", id, "level", lvl, "stats", st.Stats(), "game_over", st.GameOver)
	if st.GameOver {
		e.record(ctx, st)
	}
	return &SilenceResult{
		Level:         lvl,
		Line:          penalty.Line,
		Stats:         st.Stats(),
		Recovery:      st.Recovery,
		GameOver:      st.GameOver,
		Ending:        st.Ending,
		EndingMessage: st.EndingMessage,
	}, nil
}

// SilenceThresholds is how long the player may stay quiet before each
// level fires.
var SilenceThresholds = []struct {
	Level scoring.SilenceLevel
	After time.Duration
}{
	{scoring.SilenceAwkward, 15 * time.Second},
	{scoring.SilenceVeryAwkward, 30 * time.Second},
	{scoring.SilenceCritical, 45 * time.Second},
	{scoring.SilenceGhost, 60 * time.Second},
}

// ComposeGrace is how long after a keystroke the clock stays paused.
const ComposeGrace = 5 * time.Second

// SilenceClock measures quiet time since the last turn. Time spent within
// ComposeGrace of a keystroke does not count.
type SilenceClock struct {
	mu       sync.Mutex
	now      func() time.Time
	lastTick time.Time
	lastKey  time.Time
	silent   time.Duration
	fired    int
}

// NewSilenceClock starts a clock. A nil now uses time.Now.
func NewSilenceClock(now func() time.Time) *SilenceClock {
	if now == nil {
		now = time.Now
	}
	c := &SilenceClock{now: now}
	c.Reset()
	return c
}

// Reset restarts the clock after a turn is submitted.
func (c *SilenceClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastTick = c.now()
	c.lastKey = time.Time{}
	c.silent = 0
	c.fired = 0
}

// Keystroke marks the player as composing.
func (c *SilenceClock) Keystroke() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
	c.lastKey = c.lastTick
}

// Elapsed is the quiet time counted so far.
func (c *SilenceClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
	return c.silent
}

// Due returns the next silence level whose threshold has passed. Each level
// fires once per reset, in order.
func (c *SilenceClock) Due() (scoring.SilenceLevel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
	if c.fired >= len(SilenceThresholds) {
		return "", false
	}
	next := SilenceThresholds[c.fired]
	if c.silent < next.After {
		return "", false
	}
	c.fired++
	return next.Level, true
}

func (c *SilenceClock) advance() {
	now := c.now()
	dt := now.Sub(c.lastTick)
	if dt <= 0 {
		return
	}
	var paused time.Duration
	if !c.lastKey.IsZero() {
		if graceEnd := c.lastKey.Add(ComposeGrace); graceEnd.After(c.lastTick) {
			end := now
			if graceEnd.Before(now) {
				end = graceEnd
			}
			paused = end.Sub(c.lastTick)
		}
	}
	c.silent += dt - paused
	c.lastTick = now
}
