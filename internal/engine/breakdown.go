package engine

import (
	"fmt"
	"strings"

	"github.com/tatianab/read-the-room/internal/models"
	"github.com/tatianab/read-the-room/internal/scoring"
)

const maxBreakdownMoments = 5

var eventMarkers = map[models.EventType]string{
	models.EventIckTrigger:     "💀",
	models.EventStatCrash:      "⚠",
	models.EventTensionSpike:   "⚡",
	models.EventStatPeak:       "✨",
	models.EventChemistryBonus: "•",
}

var endingTips = map[models.Ending][]string{
	models.EndingKiss: {
		"You've got the calibration down.",
		"Try a different strategy for variety.",
		"See how early you can earn the same ending.",
	},
	models.EndingGentleman: {
		"Trust and vibe were there. A little more spark gets you the kiss.",
		"Flirt once trust is solid; tension is what opens the door.",
		"Watch for the doorstep moment.",
	},
	models.EndingNumber: {
		"Look for signs of high tension in her body language.",
		"Don't be afraid to make a move when things are going well.",
		"Timing matters. Catch the moment.",
	},
	models.EndingFade: {
		"Be more engaging: unique questions, playful teasing.",
		"Share interesting stories about yourself.",
		"React to what she says instead of jumping to the next question.",
	},
	models.EndingFumble: {
		"Build trust before you lean in.",
		"After a no, give it time. Lockouts are real.",
		"Read the room before escalating.",
	},
	models.EndingFriendZone: {
		"Create spark with compliments and light flirting.",
		"Take a conversational risk now and then.",
		"Build tension gradually across the date.",
	},
	models.EndingIck: {
		"Build trust first: ask questions, share stories.",
		"Wait for comfort signs before escalating.",
		"Match her energy level.",
	},
	models.EndingGhosted: {
		"Silence is a choice too. Say something.",
		"Even a short reply beats none.",
		"If you are stuck, ask her about herself.",
	},
}

// BuildBreakdown renders the post-game report as markdown.
func BuildBreakdown(s *models.GameState) string {
	var b strings.Builder

	b.WriteString("# Coach's Corner\n\n")

	b.WriteString("## How It Went\n\n")
	b.WriteString("| Turn | Vibe | Trust | Tension | Event |\n")
	b.WriteString("|---:|---:|---:|---:|---|\n")
	for i, t := range s.History {
		if i != 0 && i%3 != 0 && i != len(s.History)-1 && t.CriticalEvent == nil {
			continue
		}
		event := ""
		if t.CriticalEvent != nil {
			event = eventMarkers[t.CriticalEvent.Type] + " " + t.CriticalEvent.Description
		}
		fmt.Fprintf(&b, "| %d | %d | %d | %d | %s |\n", t.TurnNumber, t.StatsAfter.Vibe, t.StatsAfter.Trust, t.StatsAfter.Tension, event)
	}
	b.WriteString("\n")

	if len(s.CriticalEvents) > 0 {
		b.WriteString("## What Happened\n\n")
		for i, ev := range s.CriticalEvents {
			if i == maxBreakdownMoments {
				break
			}
			fmt.Fprintf(&b, "- Turn %d: %s → %s\n", ev.TurnNumber, ev.Description, ev.StatImpact)
		}
		b.WriteString("\n")
	}

	if s.Ending.Won() {
		b.WriteString("## Why You Won\n\n")
	} else {
		b.WriteString("## Why You Lost\n\n")
	}
	fmt.Fprintf(&b, "**%s rank: %s**\n\n", s.Ending.Grade(), s.Ending.Title())
	b.WriteString(explainEnding(s))
	b.WriteString("\n")

	b.WriteString("## Tips for Next Time\n\n")
	for i, tip := range endingTips[s.Ending] {
		fmt.Fprintf(&b, "%d. %s\n", i+1, tip)
	}
	return b.String()
}

func explainEnding(s *models.GameState) string {
	stats := fmt.Sprintf("- Trust: %d/100\n- Vibe: %d/100\n- Tension: %d/100\n", s.Trust, s.Vibe, s.Tension)
	switch s.Ending {
	case models.EndingKiss:
		return fmt.Sprintf("Perfect timing, every condition met.\n\n- Trust: %d/100 (needed %d+)\n- Vibe: %d/100 (needed %d+)\n- Tension: %d/100 (needed %d+)\n",
			s.Trust, scoring.KissWinTrust, s.Vibe, scoring.KissWinVibe, s.Tension, scoring.KissWinTension)
	case models.EndingGentleman:
		return "She trusted you and had a great time, but the spark stayed polite.\n\n" + stats
	case models.EndingNumber:
		return "Good connection, but you never made your move.\n\n" + stats
	case models.EndingFade:
		if s.EndingCause == models.CauseTrustCrash {
			return "Trust crashed late, but the date had enough going for it that she let you down gently.\n\n" + stats
		}
		return "Vibe hit zero. She got bored and left.\n\n" + stats
	case models.EndingFumble:
		return "The kiss came at the wrong moment. Late enough in the date that she laughed it off.\n\n" + stats
	case models.EndingFriendZone:
		if s.EndingCause == models.CauseTrustCrash {
			return "Trust crashed, but late enough that she kept it friendly.\n\n" + stats
		}
		return fmt.Sprintf("Tension never built. It stayed platonic.\n\nFinal Tension: %d/100 (needed %d+)\n", s.Tension, scoring.NumberMinTension)
	case models.EndingIck:
		if s.EndingCause == models.CauseContentViolation {
			return "You crossed a line she will not overlook.\n"
		}
		return "Trust crashed. She felt uncomfortable.\n\n" + stats
	case models.EndingGhosted:
		return "You went quiet for too long and she left.\n"
	}
	return "The date ended.\n"
}
