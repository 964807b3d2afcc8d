package scoring

import "github.com/tatianab/read-the-room/internal/models"

// RecoveryOutcome is how a pending recovery resolved on the current turn.
type RecoveryOutcome int

const (
	RecoveryNone RecoveryOutcome = iota
	RecoverySucceeded
	RecoveryFailed
)

// RecoveryPasses reports whether a message is good enough to rescue a
// crashed stat.
func RecoveryPasses(tag models.Tag) bool {
	if len(tag.ViolationFlags()) > 0 {
		return false
	}
	return tag.Modifier == models.ModifierSafe || tag.Modifier == models.ModifierUnique
}

// ResolveRecovery settles a recovery flagged on the previous turn. On
// success the rescued stats return to the safe zone and the flag clears.
// On failure the rescued stats drop to zero and the returned ending and
// cause end the game; Trust takes precedence over Vibe.
func ResolveRecovery(s *models.GameState, tag models.Tag) (RecoveryOutcome, models.Ending, models.Cause) {
	r := s.Recovery
	if !r.Active() {
		return RecoveryNone, "", models.CauseNone
	}
	s.Recovery = models.Recovery{}

	if RecoveryPasses(tag) {
		if r.Vibe {
			s.Vibe = max(s.Vibe, RecoverySafeZone)
		}
		if r.Trust {
			s.Trust = max(s.Trust, RecoverySafeZone)
		}
		return RecoverySucceeded, "", models.CauseNone
	}

	ending, cause := models.EndingFade, models.CauseVibeCrash
	if r.Vibe {
		s.Vibe = 0
	}
	if r.Trust {
		s.Trust = 0
		ending, cause = models.EndingIck, models.CauseTrustCrash
	}
	if r.FromViolation {
		cause = models.CauseContentViolation
	}
	return RecoveryFailed, ending, cause
}

// TriggerRecovery floors any stat that reached zero at 1 and flags it for
// rescue on the next turn. It returns the names of newly flagged stats.
func TriggerRecovery(s *models.GameState, violation bool) []string {
	var entered []string
	if s.Vibe <= 0 {
		s.Vibe = 1
		if !s.Recovery.Vibe {
			s.Recovery.Vibe = true
			entered = append(entered, "vibe")
		}
	}
	if s.Trust <= 0 {
		s.Trust = 1
		if !s.Recovery.Trust {
			s.Recovery.Trust = true
			entered = append(entered, "trust")
		}
	}
	if len(entered) > 0 && violation {
		s.Recovery.FromViolation = true
	}
	return entered
}
