package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/read-the-room/internal/engine"
	"github.com/tatianab/read-the-room/internal/models"
)

type fakeEngine struct {
	game    *models.GameState
	inputs  []string
	modes   []models.InputMode
	silence []string
}

func (f *fakeEngine) NewGame(context.Context, bool) (*models.GameState, error) {
	f.game = models.NewGameState("g1", time.Now())
	return f.game.Clone(), nil
}

func (f *fakeEngine) Game(context.Context, string) (*models.GameState, error) {
	return f.game.Clone(), nil
}

func (f *fakeEngine) SubmitTurn(_ context.Context, _ string, input string, mode models.InputMode) (*engine.TurnResult, error) {
	f.inputs = append(f.inputs, input)
	f.modes = append(f.modes, mode)
	return &engine.TurnResult{}, nil
}

func (f *fakeEngine) Silence(_ context.Context, _ string, level string) (*engine.SilenceResult, error) {
	f.silence = append(f.silence, level)
	return &engine.SilenceResult{}, nil
}

func (f *fakeEngine) UseAbility(context.Context, string, engine.Ability, string) (*engine.AbilityResult, error) {
	return &engine.AbilityResult{}, nil
}

func (f *fakeEngine) Breakdown(context.Context, string) (string, error) {
	return "# Coach's Corner\n", nil
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in        string
		name      string
		arg       string
		isCommand bool
	}{
		{"/quit", "quit", "", true},
		{"/INTEL she loves  jazz ", "intel", "she loves  jazz", true},
		{"hello /quit", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		name, arg, ok := parseCommand(tt.in)
		if name != tt.name || arg != tt.arg || ok != tt.isCommand {
			t.Errorf("parseCommand(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.in, name, arg, ok, tt.name, tt.arg, tt.isCommand)
		}
	}
}

func startedModel(t *testing.T) (model, *fakeEngine) {
	t.Helper()
	models.SaveDir = t.TempDir()
	eng := &fakeEngine{}
	m := NewModel(eng)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	g, _ := eng.NewGame(context.Background(), false)
	next, _ = next.Update(gameStartedMsg{game: g})
	return next.(model), eng
}

func typeLine(m model, s string) (model, tea.Cmd) {
	m.textInput.SetValue(s)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(model), cmd
}

func TestActionToggle(t *testing.T) {
	m, _ := startedModel(t)
	if m.state != statePlaying {
		t.Fatalf("Expected playing state, got %v", m.state)
	}
	m, _ = typeLine(m, "/action")
	if m.mode != models.ModeAction {
		t.Errorf("Expected action mode after /action, got %s", m.mode)
	}
	m, _ = typeLine(m, "/action")
	if m.mode != models.ModeDialogue {
		t.Errorf("Expected dialogue mode after a second /action, got %s", m.mode)
	}
}

func TestSubmitShowsInputAndWaits(t *testing.T) {
	m, _ := startedModel(t)
	m, cmd := typeLine(m, "So what do you do for fun?")
	if !m.waiting || cmd == nil {
		t.Fatalf("Expected the model to wait on a turn")
	}
	if !strings.Contains(m.gameLog, "So what do you do for fun?") {
		t.Errorf("Expected the input in the log")
	}

	// Further input is ignored while a turn is in flight.
	m, _ = typeLine(m, "hello?")
	if strings.Contains(m.gameLog, "hello?") {
		t.Errorf("Expected input to be ignored while waiting")
	}

	next, _ := m.Update(turnProcessedMsg{res: &engine.TurnResult{
		Turn:  models.Turn{TurnNumber: 1, Response: "*She grins.* Rock climbing, mostly.", IntuitionHint: "She's curious..."},
		Stats: models.Stats{Vibe: 40, Trust: 25},
		Act:   models.ActCoffeeShop,
	}})
	m = next.(model)
	if m.waiting || m.game.Turn != 1 || m.hint != "She's curious..." {
		t.Errorf("Unexpected model after turn: waiting=%v turn=%d hint=%q", m.waiting, m.game.Turn, m.hint)
	}
}

func TestGameOverRendersBreakdown(t *testing.T) {
	m, eng := startedModel(t)
	eng.game.GameOver = true
	eng.game.Ending = models.EndingFriendZone

	next, cmd := m.Update(turnProcessedMsg{res: &engine.TurnResult{
		Turn:     models.Turn{TurnNumber: 20, Response: "*She gives you a warm hug.*"},
		Act:      models.ActDoorstep,
		GameOver: true,
		Ending:   models.EndingFriendZone,
	}})
	m = next.(model)
	if m.state != stateOver {
		t.Fatalf("Expected game over state, got %v", m.state)
	}
	if cmd == nil {
		t.Fatalf("Expected a breakdown command")
	}
	next, _ = m.Update(cmd())
	m = next.(model)
	if !strings.Contains(m.breakdown, "Coach") {
		t.Errorf("Expected the breakdown to be rendered, got %q", m.breakdown)
	}
}

func TestRetryableErrorKeepsPlaying(t *testing.T) {
	m, _ := startedModel(t)
	m, _ = typeLine(m, "hi")
	next, _ := m.Update(turnProcessedMsg{err: &engine.RetryableError{Op: "classifier", Err: context.DeadlineExceeded}})
	m = next.(model)
	if m.state != statePlaying || m.notice == "" {
		t.Errorf("Expected to keep playing with a notice, got state=%v notice=%q", m.state, m.notice)
	}
}
