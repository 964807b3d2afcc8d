package scoring

import (
	"strings"

	"github.com/tatianab/read-the-room/internal/models"
)

// KissBranch names the branch of the kiss decision tree that matched.
type KissBranch string

const (
	KissLockout      KissBranch = "lockout"
	KissLowTrust     KissBranch = "low_trust"
	KissLowVibe      KissBranch = "low_vibe"
	KissLowTension   KissBranch = "low_tension"
	KissSuccess      KissBranch = "success"
	KissNotQuiteThen KissBranch = "not_quite"
)

// KissResult is the resolution of a kiss attempt. Ending is empty when the
// game continues.
type KissResult struct {
	Branch  KissBranch
	Success bool
	Ending  models.Ending
	Cause   models.Cause
	Message string
	// Lockout is the lockout to set after a soft rejection.
	Lockout int
	// Adjust is an extra delta applied with a soft rejection.
	Adjust Delta
}

// Ends reports whether the attempt ended the date.
func (k KissResult) Ends() bool {
	return k.Ending != ""
}

// IsKissAttempt reports whether a tag should go through the kiss resolver.
func IsKissAttempt(tag models.Tag) bool {
	if tag.Intent == models.IntentKissAttempt {
		return true
	}
	if strings.Contains(strings.ToLower(tag.Topic), "kiss") {
		return true
	}
	return tag.Intent == models.IntentEscalate &&
		tag.Modifier == models.ModifierRisky &&
		tag.HasAnyFlag(models.FlagKiss, models.FlagPhysical)
}

// ResolveKiss walks the kiss decision tree against post-delta stats.
// lockedOut is whether a lockout was running when the turn began.
func ResolveKiss(stats models.Stats, lockedOut bool) KissResult {
	switch {
	case lockedOut:
		return KissResult{
			Branch:  KissLockout,
			Ending:  models.EndingIck,
			Cause:   models.CauseLockoutKiss,
			Message: "I literally just said no. I think I should go.",
		}
	case stats.Trust < KissHardRejectTrust:
		return KissResult{
			Branch:  KissLowTrust,
			Ending:  models.EndingIck,
			Cause:   models.CauseBadKiss,
			Message: "*She steps back, visibly uncomfortable.* Whoa. I think we should call it a night.",
		}
	case stats.Vibe < KissSoftRejectVibe:
		return KissResult{
			Branch:  KissLowVibe,
			Lockout: SoftRejectLockout,
			Message: "*She turns so it lands on her cheek.* You're sweet. Let's... keep walking?",
		}
	case stats.Tension < KissWinTension:
		return KissResult{
			Branch:  KissLowTension,
			Lockout: SoftRejectLockout,
			Adjust:  Delta{Trust: SoftRejectTrust, Tension: SoftRejectTension},
			Message: "*She smiles and gently puts a hand on your chest.* Not yet. But I'm glad you asked.",
		}
	case stats.Trust >= KissWinTrust && stats.Vibe >= KissWinVibe && stats.Tension >= KissWinTension:
		return KissResult{
			Branch:  KissSuccess,
			Success: true,
			Ending:  models.EndingKiss,
			Cause:   models.CauseKissSuccess,
			Message: "*She leans in to meet you halfway.* ...Took you long enough.",
		}
	default:
		return KissResult{
			Branch:  KissNotQuiteThen,
			Lockout: SoftRejectLockout,
			Message: "*She hesitates, then laughs softly.* Almost. Ask me again some other time.",
		}
	}
}
