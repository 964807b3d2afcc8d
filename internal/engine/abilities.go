package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tatianab/read-the-room/internal/models"
	"github.com/tatianab/read-the-room/internal/scoring"
)

// Ability is a co-op handler action.
type Ability string

const (
	AbilityScanEmotion   Ability = "scan_emotion"
	AbilityIntelDrop     Ability = "intel_drop"
	AbilityEmergencyVibe Ability = "emergency_vibe"
)

// Handler budget.
const (
	HandlerStartBudget = 30
	HandlerRegen       = 10
	HandlerMaxBudget   = 100

	IntelMaxLen        = 100
	EmergencyVibeBoost = 15
)

var abilityCosts = map[Ability]int{
	AbilityScanEmotion:   10,
	AbilityIntelDrop:     20,
	AbilityEmergencyVibe: 40,
}

// AbilityCost returns what an ability costs.
func AbilityCost(a Ability) (int, bool) {
	c, ok := abilityCosts[a]
	return c, ok
}

// AbilityResult is the outcome of a handler action.
type AbilityResult struct {
	Ability Ability      `json:"ability"`
	Cost    int          `json:"cost"`
	Budget  int          `json:"budget"`
	Mood    string       `json:"mood,omitempty"`
	Intel   string       `json:"intel,omitempty"`
	Stats   models.Stats `json:"stats"`
}

// UseAbility spends handler budget. It is applied as one atomic session
// update, so it never races a turn.
func (e *Engine) UseAbility(ctx context.Context, id string, ability Ability, text string) (*AbilityResult, error) {
	cost, ok := AbilityCost(ability)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAbility, ability)
	}

	var res *AbilityResult
	_, err := e.sessions.Update(ctx, id, func(s *models.GameState) error {
		if !s.CoOp {
			return ErrNotCoOp
		}
		if s.GameOver {
			return ErrGameOver
		}
		if s.HandlerBudget < cost {
			return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientBudget, ability, cost, s.HandlerBudget)
		}

		res = &AbilityResult{Ability: ability, Cost: cost}
		switch ability {
		case AbilityScanEmotion:
			res.Mood = scoring.Mood(s.Stats())
		case AbilityIntelDrop:
			intel := truncate(strings.TrimSpace(text), IntelMaxLen)
			if intel == "" {
				return ErrEmptyInput
			}
			s.PendingIntel = append(s.PendingIntel, intel)
			res.Intel = intel
		case AbilityEmergencyVibe:
			scoring.Delta{Vibe: EmergencyVibeBoost}.Apply(s)
			scoring.ApplyCaps(s)
		}

		s.HandlerBudget -= cost
		res.Budget = s.HandlerBudget
		res.Stats = s.Stats()
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("handler ability", "id", id, "ability", ability, "budget", res.Budget)
	return res, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
