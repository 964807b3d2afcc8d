package engine

import (
	"github.com/tatianab/read-the-room/internal/models"
	"github.com/tatianab/read-the-room/internal/scoring"
)

// turn carries one input through the rules. It works on a clone of the
// stored state; nothing is committed until the whole turn succeeds.
type turn struct {
	state *models.GameState
	input string
	mode  models.InputMode
	tag   models.Tag
	noise scoring.Noise

	before    models.Stats // at the start of the turn
	scoreBase models.Stats // after recovery, before decay
	lockedOut bool
	violation bool

	recovery scoring.RecoveryOutcome
	decayed  int
	result   scoring.Result
	kiss     *scoring.KissResult
	entered  []string
	event    *models.CriticalEvent

	ending  models.Ending
	cause   models.Cause
	message string
	mercy   bool
}

func newTurn(state *models.GameState, input string, mode models.InputMode, tag models.Tag, noise scoring.Noise) *turn {
	return &turn{state: state, input: input, mode: mode, tag: tag, noise: noise}
}

func (t *turn) over() bool {
	return t.ending != ""
}

func (t *turn) end(e models.Ending, cause models.Cause, message string) {
	t.ending, t.cause, t.message = e, cause, message
}

type step struct {
	name string
	// always steps run even after the turn has produced an ending.
	always bool
	run    func(*turn)
}

// turnSteps is the order rules apply in. Each step reads what the earlier
// ones left on the turn.
var turnSteps = []step{
	{name: "begin", always: true, run: (*turn).begin},
	{name: "recovery", run: (*turn).resolveRecovery},
	{name: "decay", run: (*turn).decay},
	{name: "score", run: (*turn).score},
	{name: "lockout", always: true, run: (*turn).tickLockout},
	{name: "kiss", run: (*turn).resolveKiss},
	{name: "recovery_trigger", run: (*turn).triggerRecovery},
	{name: "turn_limit", run: (*turn).turnLimit},
	{name: "mercy", always: true, run: (*turn).applyMercy},
	{name: "critical_event", always: true, run: (*turn).detectEvent},
}

func (t *turn) run() {
	for _, s := range turnSteps {
		if t.over() && !s.always {
			continue
		}
		s.run(t)
	}
}

func (t *turn) begin() {
	t.state.Turn++
	t.before = t.state.Stats()
	t.scoreBase = t.before
	t.lockedOut = t.state.LockoutTurns > 0
	t.violation = len(t.tag.ViolationFlags()) > 0
}

func (t *turn) resolveRecovery() {
	out, ending, cause := scoring.ResolveRecovery(t.state, t.tag)
	t.recovery = out
	if out == scoring.RecoveryFailed {
		t.end(ending, cause, scoring.EndingLine(ending))
	}
}

func (t *turn) decay() {
	t.scoreBase = t.state.Stats()
	t.decayed = scoring.ApplyPassiveDecay(t.state)
}

func (t *turn) score() {
	t.result = scoring.Score(t.tag, t.scoreBase, t.noise)
	t.result.Delta.Apply(t.state)
	scoring.ApplyCaps(t.state)
}

func (t *turn) tickLockout() {
	if t.state.LockoutTurns > 0 {
		t.state.LockoutTurns--
	}
}

func (t *turn) resolveKiss() {
	if !scoring.IsKissAttempt(t.tag) {
		return
	}
	k := scoring.ResolveKiss(t.state.Stats(), t.lockedOut)
	t.kiss = &k
	if k.Ends() {
		cause := k.Cause
		if t.violation && !k.Success {
			cause = models.CauseContentViolation
		}
		t.end(k.Ending, cause, k.Message)
		return
	}
	t.state.LockoutTurns = k.Lockout
	k.Adjust.Apply(t.state)
	scoring.ApplyCaps(t.state)
}

func (t *turn) triggerRecovery() {
	t.entered = scoring.TriggerRecovery(t.state, t.violation)
}

func (t *turn) turnLimit() {
	if e, ok := scoring.CheckTurnLimit(t.state.Turn, t.state.Stats()); ok {
		t.end(e, models.CauseTurnLimit, scoring.EndingLine(e))
	}
}

func (t *turn) applyMercy() {
	if !t.over() {
		return
	}
	softened := scoring.ApplyMercy(t.ending, t.cause, t.state.Turn, t.state.Stats())
	if softened != t.ending {
		t.mercy = true
		t.ending = softened
		t.message = scoring.EndingLine(softened)
	}
}

func (t *turn) detectEvent() {
	t.event = scoring.DetectCriticalEvent(t.state.Turn, t.result, t.before, t.state.Stats())
	if t.event != nil {
		t.state.CriticalEvents = append(t.state.CriticalEvents, *t.event)
	}
}

// instruction tells the narrator how the character should behave.
func (t *turn) instruction() string {
	switch {
	case t.result.Ick:
		return "The player crossed a boundary. Be visibly uncomfortable and distant."
	case t.kiss != nil && !t.kiss.Success:
		return "You just turned down a kiss. Be slightly awkward but kind."
	case t.state.LockoutTurns > 0:
		return "You recently turned down a kiss. Be slightly awkward but kind."
	case t.state.Recovery.Active():
		return "You are on the verge of leaving. One more misstep and you will go."
	}
	return ""
}

func (t *turn) narration() models.NarrationRequest {
	return models.NarrationRequest{
		Turn:      t.state.Turn,
		Act:       models.ActForTurn(t.state.Turn),
		UserInput: t.input,
		Mode:      t.mode,
		Tag:       t.tag,
		Stats:     t.state.Stats(),
		Delta: models.Stats{
			Vibe:    t.result.Vibe,
			Trust:   t.result.Trust,
			Tension: t.result.Tension,
		},
		Recent:      t.state.RecentTurns(3),
		Instruction: t.instruction(),
	}
}

// finish records the turn on the state and builds the result.
func (t *turn) finish(response string) *TurnResult {
	s := t.state
	quality := scoring.AssessResponseQuality(response)

	var hint, category string
	if !t.over() {
		hint, category = scoring.Hint(s, t.result.Delta, t.before, s.LastHintCategory)
	}

	rec := models.Turn{
		TurnNumber:      s.Turn,
		UserInput:       t.input,
		Mode:            t.mode,
		Tags:            t.tag,
		VibeDelta:       t.result.Vibe,
		TrustDelta:      t.result.Trust,
		TensionDelta:    t.result.Tension,
		Rules:           t.result.RuleNames(),
		Response:        response,
		StatsAfter:      s.Stats(),
		ResponseQuality: quality,
		DecayApplied:    t.decayed > 0,
		IntuitionHint:   hint,
		CriticalEvent:   t.event,
	}
	s.History = append(s.History, rec)
	s.PreviousResponseQuality = quality
	s.LastHintCategory = category

	if t.over() {
		s.GameOver = true
		s.Ending = t.ending
		s.EndingCause = t.cause
		s.EndingMessage = t.message
		s.Recovery = models.Recovery{}
		s.Act = models.ActForTurn(s.Turn)
	} else {
		s.Act = models.ActForTurn(min(s.Turn+1, models.MaxTurns))
	}

	intel := s.PendingIntel
	s.PendingIntel = nil
	if s.CoOp {
		s.HandlerBudget = min(HandlerMaxBudget, s.HandlerBudget+HandlerRegen)
	}

	return &TurnResult{
		Turn:          rec,
		Stats:         s.Stats(),
		Act:           s.Act,
		LockoutTurns:  s.LockoutTurns,
		Recovery:      s.Recovery,
		DecayAmount:   t.decayed,
		GameOver:      s.GameOver,
		Ending:        s.Ending,
		EndingCause:   s.EndingCause,
		EndingMessage: s.EndingMessage,
		MercyApplied:  t.mercy,
		Intel:         intel,
		HandlerBudget: s.HandlerBudget,
	}
}
