package models

import "time"

// Starting stats for a fresh date.
const (
	StartVibe    = 30
	StartTrust   = 20
	StartTension = 0

	StatMin = 0
	StatMax = 100

	// MaxTurns is the length of a date.
	MaxTurns = 20
)

// Act is the narrative location. It is derived from the turn number and
// never gates scoring.
type Act string

const (
	ActCoffeeShop Act = "coffee_shop"
	ActWalk       Act = "walk"
	ActDoorstep   Act = "doorstep"
)

// ActForTurn returns the act a given turn number plays out in.
func ActForTurn(turn int) Act {
	switch {
	case turn >= 16:
		return ActDoorstep
	case turn >= 8:
		return ActWalk
	default:
		return ActCoffeeShop
	}
}

// Title is a display name for the act.
func (a Act) Title() string {
	switch a {
	case ActWalk:
		return "The Walk"
	case ActDoorstep:
		return "The Doorstep"
	default:
		return "Coffee Shop"
	}
}

// Quality is the engagement level of the character's last reply.
type Quality string

const (
	QualityHigh    Quality = "high"
	QualityLow     Quality = "low"
	QualityUnknown Quality = "unknown"
)

// Ending is a terminal outcome code.
type Ending string

const (
	EndingKiss       Ending = "S_RANK_KISS"
	EndingGentleman  Ending = "A_RANK_GENTLEMAN"
	EndingNumber     Ending = "B_RANK_NUMBER"
	EndingFade       Ending = "C_RANK_FADE"
	EndingFumble     Ending = "C_RANK_FUMBLE"
	EndingFriendZone Ending = "D_RANK_FRIEND_ZONE"
	EndingIck        Ending = "F_RANK_ICK"
	EndingGhosted    Ending = "F_RANK_GHOSTED"
)

// Grade is the short letter grade shown to players.
func (e Ending) Grade() string {
	switch e {
	case EndingKiss:
		return "S"
	case EndingGentleman:
		return "A"
	case EndingNumber:
		return "B"
	case EndingFade:
		return "C"
	case EndingFumble:
		return "C-"
	case EndingFriendZone:
		return "D"
	case EndingIck:
		return "F"
	case EndingGhosted:
		return "F-"
	}
	return "?"
}

// Title is the display name of the ending.
func (e Ending) Title() string {
	switch e {
	case EndingKiss:
		return "The Kiss"
	case EndingGentleman:
		return "The Gentleman"
	case EndingNumber:
		return "The Number"
	case EndingFade:
		return "The Fade"
	case EndingFumble:
		return "The Fumble"
	case EndingFriendZone:
		return "Friend Zone"
	case EndingIck:
		return "The Ick"
	case EndingGhosted:
		return "Ghosted"
	}
	return "Unknown"
}

// Won reports whether the ending counts as a good date.
func (e Ending) Won() bool {
	return e == EndingKiss || e == EndingGentleman || e == EndingNumber
}

// Cause records which path produced an ending. The mercy rule keys off it.
type Cause string

const (
	CauseNone             Cause = ""
	CauseKissSuccess      Cause = "kiss_success"
	CauseBadKiss          Cause = "bad_kiss"
	CauseLockoutKiss      Cause = "lockout_kiss"
	CauseTrustCrash       Cause = "trust_crash"
	CauseVibeCrash        Cause = "vibe_crash"
	CauseTurnLimit        Cause = "turn_limit"
	CauseSilence          Cause = "silence"
	CauseContentViolation Cause = "content_violation"
)

// EventType classifies a critical event.
type EventType string

const (
	EventIckTrigger     EventType = "ick_trigger"
	EventStatCrash      EventType = "stat_crash"
	EventTensionSpike   EventType = "tension_spike"
	EventStatPeak       EventType = "stat_peak"
	EventChemistryBonus EventType = "chemistry_bonus"
)

// CriticalEvent is a significant moment. At most one is recorded per turn.
type CriticalEvent struct {
	TurnNumber  int       `yaml:"turn_number" json:"turn_number"`
	Type        EventType `yaml:"event_type" json:"event_type"`
	Description string    `yaml:"description" json:"description"`
	StatImpact  string    `yaml:"stat_impact" json:"stat_impact"`
}

// Stats is a snapshot of the three hidden stats.
type Stats struct {
	Vibe    int `yaml:"vibe" json:"vibe"`
	Trust   int `yaml:"trust" json:"trust"`
	Tension int `yaml:"tension" json:"tension"`
}

// Average is the mean of the three stats.
func (s Stats) Average() float64 {
	return float64(s.Vibe+s.Trust+s.Tension) / 3
}

// Turn is the immutable record of one processed input.
type Turn struct {
	TurnNumber      int            `yaml:"turn_number" json:"turn_number"`
	UserInput       string         `yaml:"user_input" json:"user_input"`
	Mode            InputMode      `yaml:"mode" json:"mode"`
	Tags            Tag            `yaml:"tags" json:"tags"`
	VibeDelta       int            `yaml:"vibe_delta" json:"vibe_delta"`
	TrustDelta      int            `yaml:"trust_delta" json:"trust_delta"`
	TensionDelta    int            `yaml:"tension_delta" json:"tension_delta"`
	Rules           []string       `yaml:"rules,omitempty" json:"rules,omitempty"`
	Response        string         `yaml:"response" json:"response"`
	StatsAfter      Stats          `yaml:"stats_after" json:"stats_after"`
	ResponseQuality Quality        `yaml:"response_quality" json:"response_quality"`
	DecayApplied    bool           `yaml:"decay_applied" json:"decay_applied"`
	IntuitionHint   string         `yaml:"intuition_hint,omitempty" json:"intuition_hint,omitempty"`
	CriticalEvent   *CriticalEvent `yaml:"critical_event,omitempty" json:"critical_event,omitempty"`
}

// Recovery is the one-turn rescue state. A flagged stat is held at 1
// instead of 0 until the next turn resolves it.
type Recovery struct {
	Vibe  bool `yaml:"vibe" json:"vibe"`
	Trust bool `yaml:"trust" json:"trust"`
	// FromViolation is set when the crash came from a content violation.
	FromViolation bool `yaml:"from_violation,omitempty" json:"from_violation,omitempty"`
}

// Active reports whether any stat is pending recovery.
func (r Recovery) Active() bool {
	return r.Vibe || r.Trust
}

// GameState is the whole of one session.
type GameState struct {
	ID      string `yaml:"id" json:"id"`
	Vibe    int    `yaml:"vibe" json:"vibe"`
	Trust   int    `yaml:"trust" json:"trust"`
	Tension int    `yaml:"tension" json:"tension"`
	// Turn counts completed turns; the next input is turn Turn+1.
	Turn                    int             `yaml:"turn" json:"turn"`
	Act                     Act             `yaml:"act" json:"act"`
	LockoutTurns            int             `yaml:"lockout_turns" json:"lockout_turns"`
	PreviousResponseQuality Quality         `yaml:"previous_response_quality" json:"previous_response_quality"`
	ConsecutiveLowEffort    int             `yaml:"consecutive_low_effort" json:"consecutive_low_effort"`
	Recovery                Recovery        `yaml:"recovery" json:"recovery"`
	CriticalEvents          []CriticalEvent `yaml:"critical_events,omitempty" json:"critical_events,omitempty"`
	GameOver                bool            `yaml:"game_over" json:"game_over"`
	Ending                  Ending          `yaml:"ending,omitempty" json:"ending,omitempty"`
	EndingCause             Cause           `yaml:"ending_cause,omitempty" json:"ending_cause,omitempty"`
	EndingMessage           string          `yaml:"ending_message,omitempty" json:"ending_message,omitempty"`
	History                 []Turn          `yaml:"history,omitempty" json:"history,omitempty"`

	// Co-op handler state; unused outside co-op sessions.
	CoOp          bool     `yaml:"co_op,omitempty" json:"co_op,omitempty"`
	HandlerBudget int      `yaml:"handler_budget,omitempty" json:"handler_budget,omitempty"`
	PendingIntel  []string `yaml:"pending_intel,omitempty" json:"pending_intel,omitempty"`

	LastHintCategory string    `yaml:"last_hint_category,omitempty" json:"last_hint_category,omitempty"`
	CreatedAt        time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt        time.Time `yaml:"updated_at" json:"updated_at"`
}

// NewGameState returns the opening state of a date.
func NewGameState(id string, now time.Time) *GameState {
	return &GameState{
		ID:                      id,
		Vibe:                    StartVibe,
		Trust:                   StartTrust,
		Tension:                 StartTension,
		Act:                     ActCoffeeShop,
		PreviousResponseQuality: QualityUnknown,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// Stats returns a snapshot of the current stats.
func (s *GameState) Stats() Stats {
	return Stats{Vibe: s.Vibe, Trust: s.Trust, Tension: s.Tension}
}

// Clamp keeps every stat within [0,100].
func (s *GameState) Clamp() {
	s.Vibe = clamp(s.Vibe)
	s.Trust = clamp(s.Trust)
	s.Tension = clamp(s.Tension)
}

func clamp(v int) int {
	return max(StatMin, min(StatMax, v))
}

// Clone returns a deep copy, so a turn can be computed without touching
// stored state until it commits.
func (s *GameState) Clone() *GameState {
	out := *s
	out.CriticalEvents = append([]CriticalEvent(nil), s.CriticalEvents...)
	out.PendingIntel = append([]string(nil), s.PendingIntel...)
	out.History = make([]Turn, len(s.History))
	for i, t := range s.History {
		t.Tags.Flags = append([]string(nil), t.Tags.Flags...)
		t.Rules = append([]string(nil), t.Rules...)
		if t.CriticalEvent != nil {
			ev := *t.CriticalEvent
			t.CriticalEvent = &ev
		}
		out.History[i] = t
	}
	return &out
}

// LastTurn returns the most recent turn, if any.
func (s *GameState) LastTurn() (Turn, bool) {
	if len(s.History) == 0 {
		return Turn{}, false
	}
	return s.History[len(s.History)-1], true
}

// RecentTurns returns up to n of the latest turns, oldest first.
func (s *GameState) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
