package scoring

import "github.com/tatianab/read-the-room/internal/models"

// Rule names a context rule that fired while scoring a turn.
type Rule string

const (
	RuleContentViolation Rule = "content_violation"
	RuleCreepCheck       Rule = "creep_check"
	RuleTouchRejected    Rule = "touch_without_chemistry"
	RuleFriendZoneLock   Rule = "friend_zone_lock"
	RuleChemistryBonus   Rule = "chemistry_bonus"
	RuleValidationCap    Rule = "validation_cap"
	RulePlatonicDrift    Rule = "platonic_drift"
)

// Result is the scored delta for one tag plus the rules that shaped it.
type Result struct {
	Delta
	Rules []Rule
	// Ick is set when the turn should be remembered as an ick trigger.
	Ick bool
}

// Fired reports whether rule shaped the result.
func (r Result) Fired(rule Rule) bool {
	for _, x := range r.Rules {
		if x == rule {
			return true
		}
	}
	return false
}

// RuleNames returns the fired rules as strings for the turn log.
func (r Result) RuleNames() []string {
	if len(r.Rules) == 0 {
		return nil
	}
	out := make([]string, len(r.Rules))
	for i, x := range r.Rules {
		out[i] = string(x)
	}
	return out
}

// BaseDelta looks up the matrix entry for a tag. Unlisted pairs score zero.
func BaseDelta(intent models.Intent, modifier models.Modifier) Delta {
	return baseDeltas[intent][modifier]
}

// Score computes the delta for tag against the stats as they stood before
// the turn. The steps run in a fixed order: matrix lookup, tone multiplier
// on positive vibe, noise, action-mode multipliers, diminishing returns,
// then context rules.
func Score(tag models.Tag, cur models.Stats, noise Noise) Result {
	if noise == nil {
		noise = NoNoise{}
	}
	d := BaseDelta(tag.Intent, tag.Modifier)

	if d.Vibe > 0 {
		if m, ok := toneMultipliers[tag.Tone]; ok {
			d.Vibe = int(float64(d.Vibe) * m)
		}
	}

	d.Vibe += noise.Between(-2, 2)
	d.Trust += noise.Between(-1, 1)
	d.Tension += noise.Between(-1, 1)

	if tag.HasFlag(models.FlagActionPresent) {
		d.Tension *= ActionTensionMultiplier
		if d.Trust > 0 {
			d.Trust = int(float64(d.Trust) * ActionTrustMultiplier)
		}
	}

	d.Vibe = Diminish(d.Vibe, cur.Vibe)
	d.Trust = Diminish(d.Trust, cur.Trust)
	d.Tension = Diminish(d.Tension, cur.Tension)

	return applyContextRules(tag, cur, d)
}

// Diminish shrinks a positive delta when the stat is already high.
func Diminish(delta, current int) int {
	if delta <= 0 {
		return delta
	}
	var m float64
	switch {
	case current >= 95:
		m = 0.1
	case current >= 85:
		m = 0.25
	case current >= 70:
		m = 0.5
	default:
		return delta
	}
	return int(float64(delta) * m)
}

func applyContextRules(tag models.Tag, cur models.Stats, d Delta) Result {
	// A content violation replaces everything else.
	if len(tag.ViolationFlags()) > 0 {
		return Result{
			Delta: Delta{
				Vibe:    ViolationVibePenalty,
				Trust:   ViolationTrustPenalty,
				Tension: -cur.Tension,
			},
			Rules: []Rule{RuleContentViolation},
			Ick:   true,
		}
	}

	res := Result{Ick: tag.HasFlag(models.FlagIckTriggered)}
	escalate := tag.Intent == models.IntentEscalate

	if escalate && tag.Modifier == models.ModifierRisky && cur.Trust < CreepTrustThreshold {
		d = Delta{Vibe: CreepVibePenalty, Trust: CreepTrustPenalty, Tension: -cur.Tension}
		res.Rules = append(res.Rules, RuleCreepCheck)
		res.Ick = true
	}

	if escalate && tag.HasAnyFlag(models.FlagPhysical, models.FlagTouch) && cur.Tension < TouchTensionThreshold {
		d.Trust += TouchTrustPenalty
		d.Vibe += TouchVibePenalty
		res.Rules = append(res.Rules, RuleTouchRejected)
	}

	if escalate && cur.Trust > FriendZoneTrust && cur.Tension < FriendZoneTension {
		d = Delta{}
		res.Rules = append(res.Rules, RuleFriendZoneLock)
	}

	if cur.Vibe > ChemistryVibe && d.Trust > 0 {
		d.Trust += ChemistryBonus
		res.Rules = append(res.Rules, RuleChemistryBonus)
	}

	if tag.Intent == models.IntentValidate && d.Tension < ValidationTensionFloor {
		d.Tension = ValidationTensionFloor
		res.Rules = append(res.Rules, RuleValidationCap)
	}

	if cur.Tension == 0 && tag.Intent == models.IntentQuestion && tag.Modifier == models.ModifierGeneric {
		d.Tension -= PlatonicDriftPenalty
		res.Rules = append(res.Rules, RulePlatonicDrift)
	}

	res.Delta = d
	return res
}
