package llm

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/tatianab/read-the-room/internal/models"
)

//go:embed prompts/narrator_system.txt
var narratorSystemPrompt string

//go:embed prompts/narrator.txt
var narratorPrompt string

var narratorTmpl = template.Must(template.New("narrator").Parse(narratorPrompt))

const (
	narratorTempLow  = 0.6
	narratorTempHigh = 0.9

	lowMood  = 30
	highMood = 70
)

// Narrator writes the character's in-character reply.
type Narrator struct {
	gen Generator
}

func NewNarrator(gen Generator) *Narrator {
	return &Narrator{gen: gen}
}

// Narrate generates the reply to one turn.
func (n *Narrator) Narrate(ctx context.Context, req models.NarrationRequest) (string, error) {
	prompt, err := narrationPrompt(req)
	if err != nil {
		return "", err
	}
	text, err := n.gen.Generate(ctx, Request{
		System:      narratorSystemPrompt,
		Prompt:      prompt,
		Temperature: narratorTemperature(req.Stats.Vibe),
	})
	if err != nil {
		return "", fmt.Errorf("narrate: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("narrate: empty reply")
	}
	return text, nil
}

func narrationPrompt(req models.NarrationRequest) (string, error) {
	recent := req.Recent
	if len(recent) > contextTurns {
		recent = recent[len(recent)-contextTurns:]
	}

	var buf bytes.Buffer
	data := struct {
		Stats        models.Stats
		VibeLabel    string
		TrustLabel   string
		TensionLabel string
		Turn         int
		MaxTurns     int
		Location     string
		Recent       []models.Turn
		Phase        string
		Instruction  string
		Action       bool
		Input        string
		Tag          models.Tag
	}{
		Stats:        req.Stats,
		VibeLabel:    label(req.Stats.Vibe, "BORED", "NEUTRAL", "ENGAGED"),
		TrustLabel:   label(req.Stats.Trust, "LOW", "BUILDING", "HIGH"),
		TensionLabel: tensionLabel(req.Stats.Tension),
		Turn:         req.Turn,
		MaxTurns:     models.MaxTurns,
		Location:     req.Act.Title(),
		Recent:       recent,
		Phase:        datePhase(req.Turn),
		Instruction:  req.Instruction,
		Action:       req.Mode == models.ModeAction,
		Input:        req.UserInput,
		Tag:          req.Tag,
	}
	if err := narratorTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func label(v int, low, mid, high string) string {
	switch {
	case v < lowMood:
		return low
	case v > highMood:
		return high
	default:
		return mid
	}
}

func tensionLabel(v int) string {
	if v > 50 {
		return "SPARK"
	}
	return "PLATONIC"
}

func datePhase(turn int) string {
	switch {
	case turn <= 5:
		return "SKEPTICAL (early date). Be more guarded, shorter responses."
	case turn <= 12:
		return "ENGAGED (mid date). Normal conversation energy."
	default:
		return "INVESTED (late date). Show clearer signals, positive or negative."
	}
}

// narratorTemperature makes a bored character flatter and an engaged one
// more playful.
func narratorTemperature(vibe int) float32 {
	switch {
	case vibe < lowMood:
		return narratorTempLow
	case vibe > highMood:
		return narratorTempHigh
	default:
		return (narratorTempLow + narratorTempHigh) / 2
	}
}
