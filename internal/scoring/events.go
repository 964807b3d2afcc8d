package scoring

import (
	"fmt"

	"github.com/tatianab/read-the-room/internal/models"
)

const (
	crashThreshold = -15
	spikeThreshold = 15
	peakThreshold  = 80
)

// DetectCriticalEvent returns the single most important thing that happened
// on a turn, or nil. Priority: ick, crash, tension spike, peak, chemistry.
func DetectCriticalEvent(turn int, res Result, before, after models.Stats) *models.CriticalEvent {
	ev := func(t models.EventType, desc, impact string) *models.CriticalEvent {
		return &models.CriticalEvent{TurnNumber: turn, Type: t, Description: desc, StatImpact: impact}
	}
	d := res.Delta

	switch {
	case res.Fired(RuleContentViolation):
		return ev(models.EventIckTrigger, "Crossed a line (content violation)",
			fmt.Sprintf("Trust %+d, Vibe %+d, Tension reset", d.Trust, d.Vibe))
	case res.Ick:
		return ev(models.EventIckTrigger, "Crossed a boundary (escalated too early)",
			fmt.Sprintf("Trust %+d, Tension reset", d.Trust))
	case d.Vibe < crashThreshold:
		return ev(models.EventStatCrash, "Vibe crashed (approach didn't work)", fmt.Sprintf("Vibe %+d", d.Vibe))
	case d.Trust < crashThreshold:
		return ev(models.EventStatCrash, "Trust crashed (crossed a line)", fmt.Sprintf("Trust %+d", d.Trust))
	case d.Tension > spikeThreshold:
		return ev(models.EventTensionSpike, "Created romantic spark", fmt.Sprintf("Tension %+d", d.Tension))
	case after.Vibe > peakThreshold && before.Vibe <= peakThreshold:
		return ev(models.EventStatPeak, "Peak Vibe achieved", fmt.Sprintf("Vibe %d", after.Vibe))
	case after.Trust > peakThreshold && before.Trust <= peakThreshold:
		return ev(models.EventStatPeak, "Peak Trust achieved", fmt.Sprintf("Trust %d", after.Trust))
	case after.Tension > peakThreshold && before.Tension <= peakThreshold:
		return ev(models.EventStatPeak, "Peak Tension achieved", fmt.Sprintf("Tension %d", after.Tension))
	case res.Fired(RuleChemistryBonus):
		return ev(models.EventChemistryBonus, "High energy unlocked deeper trust", fmt.Sprintf("Trust %+d", d.Trust))
	}
	return nil
}
