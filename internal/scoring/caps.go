package scoring

import "github.com/tatianab/read-the-room/internal/models"

// Phase is a turn range with its stat ceilings. A zero cap means uncapped.
type Phase struct {
	Name       string
	FirstTurn  int
	LastTurn   int
	StatCap    int
	TensionCap int
}

var phases = []Phase{
	{Name: "Icebreaker", FirstTurn: 1, LastTurn: 5, StatCap: 50, TensionCap: 40},
	{Name: "Deep Dive", FirstTurn: 6, LastTurn: 15, StatCap: 80, TensionCap: 70},
	{Name: "The Close", FirstTurn: 16, LastTurn: models.MaxTurns},
}

// PhaseFor returns the phase containing turn. Turns before the first count
// as the first phase; turns past the last count as the last.
func PhaseFor(turn int) Phase {
	for _, p := range phases {
		if turn <= p.LastTurn {
			return p
		}
	}
	return phases[len(phases)-1]
}

// ApplyCaps clips the state's stats to the ceilings of its current turn.
// It never raises a stat.
func ApplyCaps(s *models.GameState) {
	p := PhaseFor(s.Turn)
	if p.StatCap > 0 {
		s.Vibe = min(s.Vibe, p.StatCap)
		s.Trust = min(s.Trust, p.StatCap)
	}
	if p.TensionCap > 0 {
		s.Tension = min(s.Tension, p.TensionCap)
	}
}
