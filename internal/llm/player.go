package llm

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/tatianab/read-the-room/internal/models"
)

//go:embed prompts/player.txt
var playerPrompt string

var playerTmpl = template.Must(template.New("player").Parse(playerPrompt))

// Player lets a model play the dater, for simulations.
type Player struct {
	gen Generator
}

func NewPlayer(gen Generator) *Player {
	return &Player{gen: gen}
}

// NextMessage writes the player's next line given the date so far.
func (p *Player) NextMessage(ctx context.Context, state *models.GameState, hint string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Turn     int
		MaxTurns int
		Hint     string
		Recent   []models.Turn
	}{
		Turn:     state.Turn + 1,
		MaxTurns: models.MaxTurns,
		Hint:     hint,
		Recent:   state.RecentTurns(6),
	}
	if err := playerTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	text, err := p.gen.Generate(ctx, Request{Prompt: buf.String(), Temperature: 0.9})
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(text), `"`), nil
}
