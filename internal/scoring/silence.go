package scoring

import (
	"fmt"

	"github.com/tatianab/read-the-room/internal/models"
)

// SilenceLevel is how long the player has left the character waiting.
type SilenceLevel string

const (
	SilenceAwkward     SilenceLevel = "awkward"
	SilenceVeryAwkward SilenceLevel = "very_awkward"
	SilenceCritical    SilenceLevel = "critical"
	SilenceGhost       SilenceLevel = "ghost"
)

// SilenceLevels lists the levels in the order they fire.
var SilenceLevels = []SilenceLevel{SilenceAwkward, SilenceVeryAwkward, SilenceCritical, SilenceGhost}

// SilencePenalty is the cost of one silence level.
type SilencePenalty struct {
	Delta
	// Ghost ends the date.
	Ghost bool
	Line  string
}

var silencePenalties = map[SilenceLevel]SilencePenalty{
	SilenceAwkward: {
		Delta: Delta{Vibe: -5},
		Line:  "*She stirs her coffee and glances around.*",
	},
	SilenceVeryAwkward: {
		Delta: Delta{Vibe: -10, Trust: -5},
		Line:  "*She checks her phone.* So... are you always this quiet?",
	},
	SilenceCritical: {
		Delta: Delta{Vibe: -15, Trust: -10},
		Line:  "*She starts gathering her things.* Hello? Earth to you?",
	},
	SilenceGhost: {
		Ghost: true,
		Line:  "*She stands up.* ...I'm going to head out.",
	},
}

// ParseSilenceLevel validates a level name.
func ParseSilenceLevel(s string) (SilenceLevel, error) {
	l := SilenceLevel(s)
	if _, ok := silencePenalties[l]; !ok {
		return "", fmt.Errorf("unknown silence level %q", s)
	}
	return l, nil
}

// PenaltyFor returns the penalty table entry for a level.
func PenaltyFor(l SilenceLevel) (SilencePenalty, bool) {
	p, ok := silencePenalties[l]
	return p, ok
}

// ApplySilence applies a non-ghost silence penalty like a scoring delta:
// clamp, caps, then recovery flags. Ghosting is left to the caller.
func ApplySilence(s *models.GameState, p SilencePenalty) []string {
	p.Delta.Apply(s)
	ApplyCaps(s)
	return TriggerRecovery(s, false)
}
