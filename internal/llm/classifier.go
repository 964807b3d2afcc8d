package llm

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"text/template"

	"github.com/tatianab/read-the-room/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/classifier_system.txt
var classifierSystemPrompt string

//go:embed prompts/classifier.txt
var classifierPrompt string

var classifierTmpl = template.Must(template.New("classifier").Parse(classifierPrompt))

// classifierTemperature keeps labels stable across retries.
const classifierTemperature = 0.3

// contextTurns is how many previous turns are shown to the models.
const contextTurns = 3

// ErrUnparseable is returned when the model's reply holds no usable tag.
var ErrUnparseable = errors.New("classifier reply is not a tag")

// Classifier labels player messages with a Tag.
type Classifier struct {
	gen Generator
}

func NewClassifier(gen Generator) *Classifier {
	return &Classifier{gen: gen}
}

// Classify asks the model to tag input. Unknown field values fall back to
// defaults; a reply that cannot be parsed at all is an error.
func (c *Classifier) Classify(ctx context.Context, input string, mode models.InputMode, recent []models.Turn) (models.Tag, error) {
	if len(recent) > contextTurns {
		recent = recent[len(recent)-contextTurns:]
	}

	var buf bytes.Buffer
	data := struct {
		Recent []models.Turn
		Mode   models.InputMode
		Input  string
	}{
		Recent: recent,
		Mode:   mode,
		Input:  input,
	}
	if err := classifierTmpl.Execute(&buf, data); err != nil {
		return models.Tag{}, err
	}

	text, err := c.gen.Generate(ctx, Request{
		System:      classifierSystemPrompt,
		Prompt:      buf.String(),
		Temperature: classifierTemperature,
	})
	if err != nil {
		return models.Tag{}, fmt.Errorf("classify: %w", err)
	}
	return ParseTag(text)
}

// ParseTag reads a tag out of a model reply.
func ParseTag(text string) (models.Tag, error) {
	payload := extractStructured(text)
	if payload == "" {
		return models.Tag{}, ErrUnparseable
	}

	var raw models.RawTag
	if err := yaml.Unmarshal([]byte(payload), &raw); err != nil {
		return models.Tag{}, fmt.Errorf("%w: %v\nOutput was: %s", ErrUnparseable, err, payload)
	}
	if raw.Intent == "" && raw.Modifier == "" && raw.Tone == "" && len(raw.Flags) == 0 {
		return models.Tag{}, fmt.Errorf("%w: no fields in %q", ErrUnparseable, payload)
	}
	return raw.Normalize(), nil
}
