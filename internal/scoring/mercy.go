package scoring

import "github.com/tatianab/read-the-room/internal/models"

// mercyFadeAverage is the stat average that softens a trust crash to a fade.
const mercyFadeAverage = 35

// ApplyMercy softens a harsh ending that happened late in the date. Ghosting
// and content violations are never softened.
func ApplyMercy(ending models.Ending, cause models.Cause, turn int, stats models.Stats) models.Ending {
	if turn < MercyTurn || ending != models.EndingIck {
		return ending
	}
	switch cause {
	case models.CauseTrustCrash:
		if stats.Average() >= mercyFadeAverage {
			return models.EndingFade
		}
		return models.EndingFriendZone
	case models.CauseBadKiss, models.CauseLockoutKiss:
		return models.EndingFumble
	}
	return ending
}
