package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/read-the-room/internal/engine"
	"github.com/tatianab/read-the-room/internal/models"
	"github.com/tatianab/read-the-room/internal/scoring"
)

// Engine is what the UI needs from the game engine.
type Engine interface {
	NewGame(ctx context.Context, coOp bool) (*models.GameState, error)
	Game(ctx context.Context, id string) (*models.GameState, error)
	SubmitTurn(ctx context.Context, id, input string, mode models.InputMode) (*engine.TurnResult, error)
	Silence(ctx context.Context, id, level string) (*engine.SilenceResult, error)
	UseAbility(ctx context.Context, id string, ability engine.Ability, text string) (*engine.AbilityResult, error)
	Breakdown(ctx context.Context, id string) (string, error)
}

type sessionState int

const (
	stateIntro sessionState = iota
	stateLoading
	statePlaying
	stateOver
	stateError
)

type model struct {
	state     sessionState
	engine    Engine
	game      *models.GameState
	textInput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	clock     *engine.SilenceClock
	err       error
	gameLog   string
	width     int
	height    int
	mode      models.InputMode
	waiting   bool
	hint      string
	notice    string
	breakdown string
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	chloeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D7875F")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true).
			Underline(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)
)

const introPlaceholder = "Press Enter for a date, or type 'coop' to bring a handler..."

func NewModel(eng Engine) model {
	ti := textinput.New()
	ti.Placeholder = introPlaceholder
	ti.Focus()
	ti.CharLimit = 280
	ti.Width = 60

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(systemStyle))

	return model{
		state:     stateIntro,
		engine:    eng,
		textInput: ti,
		viewport:  viewport.New(60, 20),
		spinner:   sp,
		mode:      models.ModeDialogue,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type gameStartedMsg struct {
	game *models.GameState
	err  error
}

type turnProcessedMsg struct {
	res *engine.TurnResult
	err error
}

type silenceMsg struct {
	res *engine.SilenceResult
	err error
}

type abilityMsg struct {
	res *engine.AbilityResult
	err error
}

type breakdownMsg struct {
	markdown string
	err      error
}

type silenceTickMsg time.Time

func silenceTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return silenceTickMsg(t)
	})
}

// parseCommand splits "/intel she loves jazz" into ("intel", "she loves jazz").
func parseCommand(input string) (name, arg string, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return "", "", false
	}
	name, arg, _ = strings.Cut(strings.TrimPrefix(input, "/"), " ")
	return strings.ToLower(name), strings.TrimSpace(arg), true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyPgUp, tea.KeyPgDown:
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case tea.KeyEnter:
			switch m.state {
			case stateIntro:
				coOp := strings.EqualFold(strings.TrimSpace(m.textInput.Value()), "coop")
				m.textInput.Reset()
				m.state = stateLoading
				return m, tea.Batch(m.startGame(coOp), m.spinner.Tick)
			case statePlaying, stateOver:
				return m.handleInput()
			}
		}
		if m.state == statePlaying && m.clock != nil {
			m.clock.Keystroke()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 8
		if m.state == statePlaying || m.state == stateOver {
			m.viewport.SetContent(m.renderLog())
		}

	case spinner.TickMsg:
		if m.state == stateLoading || m.waiting {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case gameStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.game = msg.game
		m.state = statePlaying
		m.hint, m.notice, m.breakdown = "", "", ""
		m.mode = models.ModeDialogue
		m.gameLog = titleStyle.Render(m.game.Act.Title()) + "\n\n" +
			chloeStyle.Width(m.logWidth()).Render("*Chloe looks up from her coffee as you sit down.* Hey. You must be my 7 o'clock.") + "\n\n"
		m.viewport.SetContent(m.renderLog())
		m.textInput.Placeholder = "Say something..."
		m.textInput.Reset()
		m.clock = engine.NewSilenceClock(nil)
		return m, silenceTick()

	case turnProcessedMsg:
		if m.game == nil {
			return m, nil
		}
		m.waiting = false
		m.clock.Reset()
		if msg.err != nil {
			if engine.IsRetryable(msg.err) {
				m.notice = "She didn't quite catch that. Try again."
				return m, nil
			}
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.notice = ""
		res := msg.res
		m.appendLog(chloeStyle.Width(m.logWidth()).Render(res.Turn.Response))
		for _, intel := range res.Intel {
			m.appendLog(systemStyle.Render("Handler intel: " + intel))
		}
		if res.Act != m.game.Act && !res.GameOver {
			m.appendLog(titleStyle.Render(res.Act.Title()))
		}
		m.hint = res.Turn.IntuitionHint
		m.refresh(res)
		if res.GameOver {
			return m, m.finish()
		}
		m.save()
		return m, nil

	case silenceMsg:
		if m.game == nil || m.state != statePlaying {
			return m, nil
		}
		if msg.err != nil {
			slog.Warn("silence penalty failed", "error", msg.err)
			return m, nil
		}
		m.appendLog(chloeStyle.Width(m.logWidth()).Render(msg.res.Line))
		if game, err := m.engine.Game(context.Background(), m.game.ID); err == nil {
			m.game = game
		}
		if msg.res.GameOver {
			return m, m.finish()
		}
		return m, nil

	case abilityMsg:
		if m.game == nil {
			return m, nil
		}
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.notice = ""
		m.game.HandlerBudget = msg.res.Budget
		switch msg.res.Ability {
		case engine.AbilityScanEmotion:
			m.appendLog(systemStyle.Render("Scan: she seems " + msg.res.Mood + "."))
		case engine.AbilityIntelDrop:
			m.appendLog(systemStyle.Render("Intel queued for your next line."))
		case engine.AbilityEmergencyVibe:
			m.appendLog(systemStyle.Render("*Something makes her laugh.* The mood lifts."))
		}
		return m, nil

	case breakdownMsg:
		if msg.err != nil {
			m.breakdown = msg.err.Error()
		} else {
			m.breakdown = m.renderMarkdown(msg.markdown)
		}
		m.viewport.SetContent(m.renderLog())
		m.viewport.GotoBottom()
		return m, nil

	case silenceTickMsg:
		if m.state != statePlaying {
			return m, nil
		}
		if m.waiting {
			return m, silenceTick()
		}
		if lvl, ok := m.clock.Due(); ok {
			return m, tea.Batch(m.applySilence(lvl), silenceTick())
		}
		return m, silenceTick()
	}

	if m.state == stateIntro || m.state == statePlaying || m.state == stateOver {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleInput() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())
	if input == "" {
		return m, nil
	}
	m.textInput.Reset()

	if name, arg, ok := parseCommand(input); ok {
		switch name {
		case "quit":
			return m, tea.Quit
		case "restart":
			m.state = stateIntro
			m.game, m.clock = nil, nil
			m.gameLog = ""
			m.textInput.Placeholder = introPlaceholder
			return m, nil
		case "save":
			m.save()
			m.notice = "Saved to " + models.SaveDir + "/" + m.game.ID
			return m, nil
		case "action":
			if m.mode == models.ModeAction {
				m.mode = models.ModeDialogue
			} else {
				m.mode = models.ModeAction
			}
			return m, nil
		case "scan":
			return m, m.useAbility(engine.AbilityScanEmotion, "")
		case "intel":
			return m, m.useAbility(engine.AbilityIntelDrop, arg)
		case "boost":
			return m, m.useAbility(engine.AbilityEmergencyVibe, "")
		}
		m.notice = "Unknown command /" + name
		return m, nil
	}

	if m.state != statePlaying || m.waiting {
		return m, nil
	}

	line := "> " + input
	if m.mode == models.ModeAction {
		line = "> *" + strings.Trim(input, "*") + "*"
	}
	m.appendLog(userStyle.Width(m.logWidth()).Render(line))
	m.waiting = true
	m.clock.Reset()
	return m, tea.Batch(m.processTurn(input, m.mode), m.spinner.Tick)
}

func (m *model) appendLog(s string) {
	m.gameLog += s + "\n\n"
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m *model) refresh(res *engine.TurnResult) {
	m.game.Turn = res.Turn.TurnNumber
	m.game.Act = res.Act
	m.game.Vibe, m.game.Trust, m.game.Tension = res.Stats.Vibe, res.Stats.Trust, res.Stats.Tension
	m.game.LockoutTurns = res.LockoutTurns
	m.game.Recovery = res.Recovery
	m.game.GameOver = res.GameOver
	m.game.Ending = res.Ending
	m.game.HandlerBudget = res.HandlerBudget
}

// finish ends the date on screen and asks for the breakdown.
func (m *model) finish() tea.Cmd {
	m.state = stateOver
	m.waiting = false
	if game, err := m.engine.Game(context.Background(), m.game.ID); err == nil {
		m.game = game
	}
	m.appendLog(warnStyle.Render(fmt.Sprintf("%s rank: %s", m.game.Ending.Grade(), m.game.Ending.Title())))
	m.save()
	m.textInput.Placeholder = "/restart or /quit"
	id := m.game.ID
	return func() tea.Msg {
		md, err := m.engine.Breakdown(context.Background(), id)
		return breakdownMsg{md, err}
	}
}

func (m *model) save() {
	if m.game == nil {
		return
	}
	game, err := m.engine.Game(context.Background(), m.game.ID)
	if err != nil {
		slog.Warn("failed to load game for saving", "id", m.game.ID, "error", err)
		return
	}
	if err := game.Save(game.ID); err != nil {
		slog.Warn("failed to save transcript", "id", game.ID, "error", err)
	}
}

func (m model) renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(m.logWidth()),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m model) logWidth() int {
	return max(int(float64(m.width)*0.7), 20)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateIntro:
		s = fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			titleStyle.Render("READ THE ROOM"),
			"Twenty turns. One date. She notices everything.",
			m.textInput.View(),
		)

	case stateLoading:
		s = fmt.Sprintf("\n  %s Finding a table...\n", m.spinner.View())

	case statePlaying, stateOver:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)

		status := ""
		if m.waiting {
			status = m.spinner.View() + " she's thinking..."
		} else if m.notice != "" {
			status = systemStyle.Render(m.notice)
		}

		help := "Commands: /action, /save, /restart, /quit"
		if m.game != nil && m.game.CoOp {
			help += ", /scan, /intel <text>, /boost"
		}

		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			status,
			m.textInput.View(),
			helpStyle.Render(help),
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	if m.game == nil {
		return ""
	}
	g := m.game

	var b strings.Builder
	b.WriteString(titleStyle.Render("SCENE") + "\n")
	fmt.Fprintf(&b, "%s\nTurn %d/%d\n", g.Act.Title(), g.Turn, models.MaxTurns)
	fmt.Fprintf(&b, "Phase: %s\n\n", scoring.PhaseFor(g.Turn+1).Name)

	b.WriteString(titleStyle.Render("YOU") + "\n")
	if m.mode == models.ModeAction {
		b.WriteString("Mode: action\n\n")
	} else {
		b.WriteString("Mode: dialogue\n\n")
	}

	if m.hint != "" {
		b.WriteString(titleStyle.Render("INTUITION") + "\n")
		b.WriteString(m.hint + "\n\n")
	}

	if g.LockoutTurns > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("She needs a moment (%d)", g.LockoutTurns)) + "\n")
	}
	if g.Recovery.Active() {
		b.WriteString(warnStyle.Render("She's about to leave.") + "\n")
	}

	if g.CoOp {
		b.WriteString("\n" + titleStyle.Render("HANDLER") + "\n")
		fmt.Fprintf(&b, "Budget: %d/%d\n", g.HandlerBudget, engine.HandlerMaxBudget)
	}

	if m.state == stateOver {
		b.WriteString("\n" + titleStyle.Render("FINAL") + "\n")
		fmt.Fprintf(&b, "Vibe %d\nTrust %d\nTension %d\n", g.Vibe, g.Trust, g.Tension)
	}

	stateWidth := int(float64(m.width) * 0.27)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

func (m model) renderLog() string {
	if m.breakdown == "" {
		return m.gameLog
	}
	return m.gameLog + m.breakdown
}

func (m model) startGame(coOp bool) tea.Cmd {
	return func() tea.Msg {
		game, err := m.engine.NewGame(context.Background(), coOp)
		return gameStartedMsg{game, err}
	}
}

func (m model) processTurn(input string, mode models.InputMode) tea.Cmd {
	id := m.game.ID
	return func() tea.Msg {
		res, err := m.engine.SubmitTurn(context.Background(), id, input, mode)
		return turnProcessedMsg{res, err}
	}
}

func (m model) applySilence(lvl scoring.SilenceLevel) tea.Cmd {
	id := m.game.ID
	return func() tea.Msg {
		res, err := m.engine.Silence(context.Background(), id, string(lvl))
		return silenceMsg{res, err}
	}
}

func (m model) useAbility(a engine.Ability, text string) tea.Cmd {
	if m.game == nil || m.state != statePlaying {
		return nil
	}
	id := m.game.ID
	return func() tea.Msg {
		res, err := m.engine.UseAbility(context.Background(), id, a, text)
		return abilityMsg{res, err}
	}
}

func Run(eng Engine) error {
	p := tea.NewProgram(NewModel(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
