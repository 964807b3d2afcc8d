package scoring

import "github.com/tatianab/read-the-room/internal/models"

// Hint categories, in priority order.
const (
	HintCritical  = "critical"
	HintThreshold = "threshold"
	HintDelta     = "delta"
	HintPositive  = "positive"
)

const (
	intuitionCritical     = 10
	intuitionLow          = 30
	intuitionHigh         = 70
	intuitionSpark        = 50
	intuitionKiss         = 80
	intuitionSignificant  = 15
	intuitionVibeDropping = -10
)

// Hint gives the player a vague gut feeling about the hidden stats without
// revealing numbers. prev is the stat snapshot from before the turn.
// lastCategory suppresses back-to-back positive hints. It returns the hint
// (possibly empty) and its category.
func Hint(s *models.GameState, d Delta, prev models.Stats, lastCategory string) (string, string) {
	switch {
	case s.LockoutTurns > 0:
		return "I need to back off and reset the vibe...", HintCritical
	case s.Trust <= intuitionCritical:
		return "She's about to leave...", HintCritical
	case s.Vibe <= intuitionCritical:
		return "I'm losing her fast...", HintCritical
	}

	switch {
	case s.Vibe < intuitionLow && prev.Vibe >= intuitionLow:
		return "I'm losing her attention...", HintThreshold
	case s.Trust < intuitionLow && prev.Trust >= intuitionLow:
		return "She seems uncomfortable...", HintThreshold
	case s.Tension >= intuitionKiss && prev.Tension < intuitionKiss:
		return "This feels like the moment...", HintThreshold
	case s.Tension >= intuitionSpark && prev.Tension < intuitionSpark:
		return "There's something electric here...", HintThreshold
	}

	switch {
	case d.Trust <= -intuitionSignificant:
		return "That didn't land well...", HintDelta
	case d.Vibe <= intuitionVibeDropping:
		return "She's getting bored...", HintDelta
	case d.Tension >= intuitionSignificant:
		return "The energy just shifted...", HintDelta
	}

	if lastCategory == HintPositive {
		return "", ""
	}
	switch {
	case s.Vibe > intuitionHigh:
		return "She's really engaged...", HintPositive
	case s.Trust > intuitionHigh:
		return "She's opening up...", HintPositive
	case d.Vibe > 5 && d.Trust > 3 && d.Tension > 3:
		return "This is going well...", HintPositive
	}
	return "", ""
}

// Mood is a one-word read of the character, used by the handler's scan.
func Mood(st models.Stats) string {
	switch {
	case st.Trust <= intuitionCritical || st.Vibe <= intuitionCritical:
		return "checked out"
	case st.Tension >= intuitionKiss && st.Trust >= KissWinTrust:
		return "smitten"
	case st.Tension >= intuitionSpark:
		return "flustered"
	case st.Vibe > intuitionHigh && st.Trust > intuitionHigh:
		return "comfortable"
	case st.Vibe > intuitionHigh:
		return "amused"
	case st.Trust < intuitionLow:
		return "guarded"
	case st.Vibe < intuitionLow:
		return "bored"
	default:
		return "curious"
	}
}
