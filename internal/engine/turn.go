package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tatianab/read-the-room/internal/models"
)

// TurnResult is what the player sees after a turn.
type TurnResult struct {
	Turn          models.Turn     `json:"turn"`
	Stats         models.Stats    `json:"stats"`
	Act           models.Act      `json:"act"`
	LockoutTurns  int             `json:"lockout_turns"`
	Recovery      models.Recovery `json:"recovery"`
	DecayAmount   int             `json:"decay_amount"`
	GameOver      bool            `json:"game_over"`
	Ending        models.Ending   `json:"ending,omitempty"`
	EndingCause   models.Cause    `json:"ending_cause,omitempty"`
	EndingMessage string          `json:"ending_message,omitempty"`
	MercyApplied  bool            `json:"mercy_applied,omitempty"`
	// Intel is handler intel delivered with this turn in co-op dates.
	Intel         []string `json:"intel,omitempty"`
	HandlerBudget int      `json:"handler_budget,omitempty"`
}

// SubmitTurn plays one player message. A classifier or narrator failure
// returns a *RetryableError and leaves the session untouched.
func (e *Engine) SubmitTurn(ctx context.Context, id, input string, mode models.InputMode) (*TurnResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	var res *TurnResult
	st, err := e.sessions.Update(ctx, id, func(s *models.GameState) error {
		if s.GameOver {
			return ErrGameOver
		}

		tag, err := e.classify(ctx, s, input, mode)
		if err != nil {
			return err
		}

		t := newTurn(s, input, mode, tag, e.noise)
		t.run()

		response := t.message
		if !t.over() {
			response, err = e.narrate(ctx, t)
			if err != nil {
				return err
			}
		}
		res = t.finish(response)

		slog.Debug("turn played",
			"id", s.ID,
			"turn", s.Turn,
			"intent", tag.Intent,
			"modifier", tag.Modifier,
			"tone", tag.Tone,
			"flags", tag.Flags,
			"vibe_delta", t.result.Vibe,
			"trust_delta", t.result.Trust,
			"tension_delta", t.result.Tension,
			"rules", t.result.Rules,
			"decay", t.decayed,
			"stats", s.Stats(),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if st.GameOver {
		slog.Info("game over", "id", st.ID, "turn", st.Turn, "ending", st.Ending, "cause", st.EndingCause, "mercy", res.MercyApplied)
		e.record(ctx, st)
	}
	return res, nil
}

func (e *Engine) classify(ctx context.Context, s *models.GameState, input string, mode models.InputMode) (models.Tag, error) {
	cctx, cancel := e.withTimeout(ctx)
	defer cancel()
	tag, err := e.classifier.Classify(cctx, input, mode, s.RecentTurns(3))
	if err != nil {
		slog.Warn("classifier failed", "id", s.ID, "error", err)
		return models.Tag{}, &RetryableError{Op: "classifier", Err: err}
	}
	if mode == models.ModeAction {
		tag = tag.WithFlag(models.FlagActionPresent)
	}
	return tag, nil
}

func (e *Engine) narrate(ctx context.Context, t *turn) (string, error) {
	nctx, cancel := e.withTimeout(ctx)
	defer cancel()
	text, err := e.narrator.Narrate(nctx, t.narration())
	if err != nil {
		slog.Warn("narrator failed", "id", t.state.ID, "error", err)
		return "", &RetryableError{Op: "narrator", Err: err}
	}
	return text, nil
}
