// Package llm adapts hosted language models into the classifier and the
// narrator the game engine consumes.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default model names per provider.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Request is a single prompt sent to a model.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}

// NewGenerator builds the generator for provider. An empty model picks the
// provider's default.
func NewGenerator(ctx context.Context, provider, apiKey, model string) (Generator, error) {
	switch strings.ToLower(provider) {
	case "", ProviderGemini:
		if model == "" {
			model = DefaultGeminiModel
		}
		return NewGemini(ctx, apiKey, model)
	case ProviderOpenAI:
		if model == "" {
			model = DefaultOpenAIModel
		}
		return NewOpenAI(apiKey, model), nil
	}
	return nil, fmt.Errorf("unknown provider %q", provider)
}

var fencedBlock = regexp.MustCompile("(?s)```(?:yaml|yml|json)?\\s*(.*?)```")

// extractStructured pulls the YAML (or JSON, which is valid YAML) payload
// out of a model reply that may wrap it in a code fence or prose.
func extractStructured(text string) string {
	text = strings.TrimSpace(text)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
