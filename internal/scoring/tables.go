// Package scoring holds the rules of the date: how a classified message moves
// Vibe, Trust and Tension, and how those stats turn into an ending.
//
// Everything here is deterministic apart from the Noise source passed to
// Score. Functions take stats or a *models.GameState and never perform I/O.
package scoring

import "github.com/tatianab/read-the-room/internal/models"

// Delta is a change to the three stats.
type Delta struct {
	Vibe    int `json:"vibe" yaml:"vibe"`
	Trust   int `json:"trust" yaml:"trust"`
	Tension int `json:"tension" yaml:"tension"`
}

// Apply adds d to the state's stats and clamps them.
func (d Delta) Apply(s *models.GameState) {
	s.Vibe += d.Vibe
	s.Trust += d.Trust
	s.Tension += d.Tension
	s.Clamp()
}

// baseDeltas is the scoring matrix indexed by (intent, modifier).
// Pairs that are missing score (0,0,0).
var baseDeltas = map[models.Intent]map[models.Modifier]Delta{
	models.IntentCompliment: {
		models.ModifierGeneric:   {-5, 0, -5},
		models.ModifierUnique:    {5, 5, 5},
		models.ModifierRisky:     {-10, -5, 15},
		models.ModifierDesperate: {-10, -10, -20},
	},
	models.IntentQuestion: {
		models.ModifierGeneric: {-5, 0, 0},
		models.ModifierUnique:  {10, 5, 0},
		models.ModifierRisky:   {0, -5, 10},
	},
	models.IntentJoke: {
		models.ModifierGeneric: {-5, 0, 0},
		models.ModifierUnique:  {15, 5, 5},
		models.ModifierRisky:   {5, -5, 10},
	},
	models.IntentEscalate: {
		models.ModifierSafe:      {0, 5, 0},
		models.ModifierRisky:     {0, -10, 20},
		models.ModifierDesperate: {-20, -30, -10},
	},
	models.IntentReact: {
		models.ModifierGeneric: {-5, 0, -5},
		models.ModifierSafe:    {0, 2, -2},
	},
	models.IntentShare: {
		models.ModifierSafe:      {5, 10, 0},
		models.ModifierUnique:    {10, 15, 5},
		models.ModifierDesperate: {-15, -20, -10},
	},
	models.IntentValidate: {
		models.ModifierGeneric:   {-5, -5, -10},
		models.ModifierDesperate: {-10, -10, -20},
	},
	models.IntentFlirt: {
		models.ModifierGeneric:   {-5, 0, 5},
		models.ModifierSafe:      {5, 5, 5},
		models.ModifierUnique:    {10, 5, 10},
		models.ModifierRisky:     {5, -5, 15},
		models.ModifierDesperate: {-10, -10, -10},
	},
	models.IntentApologize: {
		models.ModifierGeneric:   {0, 5, -5},
		models.ModifierSafe:      {5, 10, 0},
		models.ModifierUnique:    {5, 15, 0},
		models.ModifierDesperate: {-5, 0, -10},
	},
}

// toneMultipliers scale a positive Vibe delta.
var toneMultipliers = map[models.Tone]float64{
	models.ToneConfident:  1.2,
	models.TonePlayful:    1.5,
	models.ToneNervous:    0.5,
	models.ToneFlat:       0.2,
	models.ToneAggressive: 0.5,
}

// Rule thresholds.
const (
	CreepTrustThreshold     = 40
	TouchTensionThreshold   = 40
	FriendZoneTrust         = 80
	FriendZoneTension       = 30
	ChemistryVibe           = 70
	ChemistryBonus          = 5
	ValidationTensionFloor  = -10
	PlatonicDriftPenalty    = 5
	ViolationTrustPenalty   = -50
	ViolationVibePenalty    = -30
	CreepTrustPenalty       = -30
	CreepVibePenalty        = -20
	TouchTrustPenalty       = -20
	TouchVibePenalty        = -10
	ActionTensionMultiplier = 2
	ActionTrustMultiplier   = 0.7
)

// Kiss thresholds.
const (
	KissHardRejectTrust = 60
	KissSoftRejectVibe  = 40
	KissWinTrust        = 70
	KissWinVibe         = 60
	KissWinTension      = 80
	SoftRejectLockout   = 5
	SoftRejectTension   = -20
	SoftRejectTrust     = 10
)

// Turn-limit ending thresholds.
const (
	GentlemanTrust      = 85
	GentlemanVibe       = 80
	GentlemanMaxTension = 70
	NumberMinTension    = 50
)

// RecoverySafeZone is where a rescued stat is restored to.
const RecoverySafeZone = 15

// MercyTurn is the first turn at which the mercy rule softens an ending.
const MercyTurn = 7
