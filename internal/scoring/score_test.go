package scoring

import (
	"testing"
	"time"

	"github.com/tatianab/read-the-room/internal/models"
)

func tag(intent models.Intent, modifier models.Modifier, tone models.Tone, flags ...string) models.Tag {
	return models.Tag{Intent: intent, Modifier: modifier, Tone: tone, Flags: flags}
}

func TestScore(t *testing.T) {
	start := models.Stats{Vibe: models.StartVibe, Trust: models.StartTrust, Tension: models.StartTension}
	tests := []struct {
		name  string
		tag   models.Tag
		cur   models.Stats
		want  Delta
		rules []Rule
	}{
		{
			name: "unique confident compliment",
			tag:  tag(models.IntentCompliment, models.ModifierUnique, models.ToneConfident),
			cur:  start,
			want: Delta{Vibe: 6, Trust: 5, Tension: 5},
		},
		{
			name: "flat tone crushes positive vibe",
			tag:  tag(models.IntentJoke, models.ModifierUnique, models.ToneFlat),
			cur:  models.Stats{Vibe: 30, Trust: 20, Tension: 10},
			want: Delta{Vibe: 3, Trust: 5, Tension: 5},
		},
		{
			name: "tone never softens a negative vibe",
			tag:  tag(models.IntentCompliment, models.ModifierGeneric, models.TonePlayful),
			cur:  models.Stats{Vibe: 30, Trust: 20, Tension: 10},
			want: Delta{Vibe: -5, Trust: 0, Tension: -5},
		},
		{
			name: "unlisted pair scores zero",
			tag:  tag(models.IntentKissAttempt, models.ModifierUnique, models.ToneConfident),
			cur:  models.Stats{Vibe: 30, Trust: 20, Tension: 10},
			want: Delta{},
		},
		{
			name:  "early creep",
			tag:   tag(models.IntentEscalate, models.ModifierRisky, models.ToneConfident),
			cur:   models.Stats{Vibe: 30, Trust: 20, Tension: 12},
			want:  Delta{Vibe: -20, Trust: -30, Tension: -12},
			rules: []Rule{RuleCreepCheck},
		},
		{
			name:  "touch without chemistry stacks",
			tag:   tag(models.IntentEscalate, models.ModifierSafe, models.ToneNervous, models.FlagTouch),
			cur:   models.Stats{Vibe: 40, Trust: 50, Tension: 10},
			want:  Delta{Vibe: -10, Trust: -15, Tension: 0},
			rules: []Rule{RuleTouchRejected},
		},
		{
			name:  "friend zone lock",
			tag:   tag(models.IntentEscalate, models.ModifierSafe, models.ToneConfident),
			cur:   models.Stats{Vibe: 50, Trust: 85, Tension: 20},
			want:  Delta{},
			rules: []Rule{RuleFriendZoneLock},
		},
		{
			name:  "chemistry bonus",
			tag:   tag(models.IntentShare, models.ModifierSafe, models.ToneConfident),
			cur:   models.Stats{Vibe: 75, Trust: 40, Tension: 20},
			want:  Delta{Vibe: 3, Trust: 15, Tension: 0},
			rules: []Rule{RuleChemistryBonus},
		},
		{
			name:  "validation penalty is capped",
			tag:   tag(models.IntentValidate, models.ModifierDesperate, models.ToneNervous),
			cur:   models.Stats{Vibe: 40, Trust: 40, Tension: 30},
			want:  Delta{Vibe: -10, Trust: -10, Tension: -10},
			rules: []Rule{RuleValidationCap},
		},
		{
			name:  "platonic drift",
			tag:   tag(models.IntentQuestion, models.ModifierGeneric, models.ToneFlat),
			cur:   start,
			want:  Delta{Vibe: -5, Trust: 0, Tension: -5},
			rules: []Rule{RulePlatonicDrift},
		},
		{
			name: "action mode doubles tension and dampens trust",
			tag:  tag(models.IntentShare, models.ModifierUnique, models.ToneConfident, models.FlagActionPresent),
			cur:  models.Stats{Vibe: 30, Trust: 40, Tension: 10},
			want: Delta{Vibe: 12, Trust: 10, Tension: 10},
		},
		{
			name:  "diminishing returns near the top",
			tag:   tag(models.IntentShare, models.ModifierUnique, models.ToneConfident),
			cur:   models.Stats{Vibe: 96, Trust: 86, Tension: 70},
			want:  Delta{Vibe: 1, Trust: 3 + ChemistryBonus, Tension: 2},
			rules: []Rule{RuleChemistryBonus},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.tag, tt.cur, NoNoise{})
			if got.Delta != tt.want {
				t.Errorf("Score() delta = %+v, want %+v", got.Delta, tt.want)
			}
			if len(got.Rules) != len(tt.rules) {
				t.Fatalf("Score() rules = %v, want %v", got.Rules, tt.rules)
			}
			for i := range tt.rules {
				if got.Rules[i] != tt.rules[i] {
					t.Errorf("rule %d = %s, want %s", i, got.Rules[i], tt.rules[i])
				}
			}
		})
	}
}

func TestContentViolationOverridesEverything(t *testing.T) {
	// Stats that would otherwise reward a unique, confident move.
	cur := models.Stats{Vibe: 80, Trust: 80, Tension: 90}
	tg := tag(models.IntentKissAttempt, models.ModifierUnique, models.ToneConfident, "inappropriate_sexual", models.FlagKiss)

	got := Score(tg, cur, FixedNoise(2))
	want := Delta{Vibe: ViolationVibePenalty, Trust: ViolationTrustPenalty, Tension: -90}
	if got.Delta != want {
		t.Errorf("Expected violation penalty %+v, got %+v", want, got.Delta)
	}
	if !got.Fired(RuleContentViolation) || len(got.Rules) != 1 {
		t.Errorf("Expected only the violation rule, got %v", got.Rules)
	}
	if !got.Ick {
		t.Errorf("Expected violation to count as an ick")
	}
}

func TestCreepIgnoresNoise(t *testing.T) {
	cur := models.Stats{Vibe: 30, Trust: 20, Tension: 0}
	got := Score(tag(models.IntentEscalate, models.ModifierRisky, models.TonePlayful), cur, FixedNoise(-1))
	if got.Trust != CreepTrustPenalty {
		t.Fatalf("Expected trust delta %d, got %d", CreepTrustPenalty, got.Trust)
	}

	s := models.NewGameState("creep", time.Time{})
	s.Turn = 2
	got.Delta.Apply(s)
	ApplyCaps(s)
	entered := TriggerRecovery(s, false)
	if s.Trust != 1 || !s.Recovery.Trust || len(entered) != 1 {
		t.Errorf("Expected trust floored at 1 and flagged, got trust=%d recovery=%+v", s.Trust, s.Recovery)
	}
}

func TestNoiseRanges(t *testing.T) {
	n := NewRandNoise(7)
	for range 500 {
		if v := n.Between(-2, 2); v < -2 || v > 2 {
			t.Fatalf("Between(-2, 2) = %d", v)
		}
	}
	if got := FixedNoise(5).Between(-1, 1); got != 1 {
		t.Errorf("FixedNoise should clip to range, got %d", got)
	}
}

func TestClampingUnderExtremeDeltas(t *testing.T) {
	s := models.NewGameState("x", time.Time{})
	for _, d := range []Delta{{1000, 1000, 1000}, {-1000, -1000, -1000}, {50, -50, 500}} {
		d.Apply(s)
		if s.Vibe < 0 || s.Vibe > 100 || s.Trust < 0 || s.Trust > 100 || s.Tension < 0 || s.Tension > 100 {
			t.Fatalf("Stats out of range after %+v: %+v", d, s.Stats())
		}
	}
}

func TestDiminish(t *testing.T) {
	tests := []struct {
		delta, current, want int
	}{
		{10, 50, 10},
		{10, 69, 10},
		{10, 70, 5},
		{10, 85, 2},
		{10, 95, 1},
		{-10, 95, -10},
	}
	for _, tt := range tests {
		if got := Diminish(tt.delta, tt.current); got != tt.want {
			t.Errorf("Diminish(%d, %d) = %d, want %d", tt.delta, tt.current, got, tt.want)
		}
	}
}

func TestApplyCaps(t *testing.T) {
	tests := []struct {
		turn int
		in   models.Stats
		want models.Stats
	}{
		{turn: 3, in: models.Stats{Vibe: 70, Trust: 70, Tension: 70}, want: models.Stats{Vibe: 50, Trust: 50, Tension: 40}},
		{turn: 5, in: models.Stats{Vibe: 10, Trust: 45, Tension: 5}, want: models.Stats{Vibe: 10, Trust: 45, Tension: 5}},
		{turn: 6, in: models.Stats{Vibe: 90, Trust: 90, Tension: 90}, want: models.Stats{Vibe: 80, Trust: 80, Tension: 70}},
		{turn: 15, in: models.Stats{Vibe: 81, Trust: 79, Tension: 71}, want: models.Stats{Vibe: 80, Trust: 79, Tension: 70}},
		{turn: 16, in: models.Stats{Vibe: 100, Trust: 100, Tension: 100}, want: models.Stats{Vibe: 100, Trust: 100, Tension: 100}},
	}
	for _, tt := range tests {
		s := &models.GameState{Turn: tt.turn, Vibe: tt.in.Vibe, Trust: tt.in.Trust, Tension: tt.in.Tension}
		ApplyCaps(s)
		if s.Stats() != tt.want {
			t.Errorf("turn %d: ApplyCaps(%+v) = %+v, want %+v", tt.turn, tt.in, s.Stats(), tt.want)
		}
	}
}
