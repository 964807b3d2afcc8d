package scoring

import (
	"strings"

	"github.com/tatianab/read-the-room/internal/models"
)

// shortReplyWords is the longest single-sentence reply still judged low effort.
const shortReplyWords = 12

// AssessResponseQuality judges how engaged the character's reply was.
// A reply that asks something back, carries an action beat, runs more than
// one sentence or is long enough counts as high.
func AssessResponseQuality(text string) models.Quality {
	t := strings.TrimSpace(text)
	if t == "" {
		return models.QualityLow
	}
	if strings.ContainsAny(t, "?*") {
		return models.QualityHigh
	}
	if sentenceCount(t) > 1 {
		return models.QualityHigh
	}
	if len(strings.Fields(t)) > shortReplyWords {
		return models.QualityHigh
	}
	return models.QualityLow
}

// sentenceCount counts runs of terminal punctuation, plus a trailing
// fragment with none.
func sentenceCount(t string) int {
	n := 0
	inRun := false
	for _, r := range t {
		if r == '.' || r == '!' || r == '?' {
			if !inRun {
				n++
			}
			inRun = true
			continue
		}
		inRun = false
	}
	if !inRun {
		n++
	}
	return n
}

// DecayAmount is the vibe lost to a low-effort streak at the given vibe.
func DecayAmount(vibe int) int {
	switch {
	case vibe >= 91:
		return 15
	case vibe >= 71:
		return 10
	case vibe >= 31:
		return 7
	default:
		return 5
	}
}

// ApplyPassiveDecay updates the low-effort streak from the previous reply
// and, on the second or later low-effort turn in a row, drains vibe.
// The first turn and turns under lockout are exempt and leave the streak
// untouched. It returns the amount of vibe removed.
func ApplyPassiveDecay(s *models.GameState) int {
	if s.Turn <= 1 || s.LockoutTurns > 0 {
		return 0
	}
	if s.PreviousResponseQuality != models.QualityLow {
		s.ConsecutiveLowEffort = 0
		return 0
	}
	s.ConsecutiveLowEffort++
	if s.ConsecutiveLowEffort < 2 {
		return 0
	}
	amount := DecayAmount(s.Vibe)
	s.Vibe = max(models.StatMin, s.Vibe-amount)
	return amount
}
