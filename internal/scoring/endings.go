package scoring

import "github.com/tatianab/read-the-room/internal/models"

// CheckTurnLimit picks the ending once the last turn is played. It reports
// false before the limit.
func CheckTurnLimit(turn int, stats models.Stats) (models.Ending, bool) {
	if turn < models.MaxTurns {
		return "", false
	}
	switch {
	case stats.Trust >= GentlemanTrust && stats.Vibe >= GentlemanVibe && stats.Tension < GentlemanMaxTension:
		return models.EndingGentleman, true
	case stats.Tension >= NumberMinTension:
		return models.EndingNumber, true
	default:
		return models.EndingFriendZone, true
	}
}

var endingLines = map[models.Ending]string{
	models.EndingKiss:       "*She leans in to meet you halfway.* ...Took you long enough.",
	models.EndingGentleman:  "*She squeezes your hand at the door.* This was really nice. Text me when you get home?",
	models.EndingNumber:     "*She takes your phone and types in her number.* Don't make me wait too long.",
	models.EndingFade:       "*She checks her phone.* Oh, my friend needs me. It was... nice meeting you.",
	models.EndingFumble:     "*She laughs, not unkindly.* Okay, that was a lot. Maybe we try that again sometime. Maybe.",
	models.EndingFriendZone: "*She gives you a warm hug.* You're such a good friend. We should hang out again!",
	models.EndingIck:        "*Her face goes cold.* I need to go. Please don't text me.",
	models.EndingGhosted:    "*She glances at the door, then at you.* ...I'm going to head out.",
}

// EndingLine is the closing line shown for an ending.
func EndingLine(e models.Ending) string {
	if line, ok := endingLines[e]; ok {
		return line
	}
	return "*The date is over.*"
}
