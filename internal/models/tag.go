package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Intent is what the player was trying to do with a message.
type Intent string

const (
	IntentCompliment  Intent = "Compliment"
	IntentQuestion    Intent = "Question"
	IntentJoke        Intent = "Joke"
	IntentShare       Intent = "Share"
	IntentEscalate    Intent = "Escalate"
	IntentReact       Intent = "React"
	IntentValidate    Intent = "Validate"
	IntentKissAttempt Intent = "KissAttempt"
	IntentFlirt       Intent = "Flirt"
	IntentApologize   Intent = "Apologize"
)

// Modifier grades how well an intent was executed.
type Modifier string

const (
	ModifierGeneric   Modifier = "Generic"
	ModifierUnique    Modifier = "Unique"
	ModifierSafe      Modifier = "Safe"
	ModifierRisky     Modifier = "Risky"
	ModifierDesperate Modifier = "Desperate"
)

// Tone is the delivery of a message.
type Tone string

const (
	ToneConfident  Tone = "Confident"
	TonePlayful    Tone = "Playful"
	ToneNervous    Tone = "Nervous"
	ToneAggressive Tone = "Aggressive"
	ToneFlat       Tone = "Flat"
)

// Well-known tag flags.
const (
	FlagActionPresent = "Action_Present"
	FlagKiss          = "kiss"
	FlagTouch         = "touch"
	FlagPhysical      = "physical"
	FlagIckTriggered  = "ick_triggered"
	FlagViolation     = "content_violation"
)

var (
	allIntents   = []Intent{IntentCompliment, IntentQuestion, IntentJoke, IntentShare, IntentEscalate, IntentReact, IntentValidate, IntentKissAttempt, IntentFlirt, IntentApologize}
	allModifiers = []Modifier{ModifierGeneric, ModifierUnique, ModifierSafe, ModifierRisky, ModifierDesperate}
	allTones     = []Tone{ToneConfident, TonePlayful, ToneNervous, ToneAggressive, ToneFlat}
)

// violationMarkers are substrings that mark a flag as a content violation.
// Matching is loose on purpose: a borderline flag counts as a violation.
var violationMarkers = []string{"violation", "inappropriate", "sexual", "harass", "vulgar", "profan", "slur", "threat"}

// fold lowercases s and drops separators so "Kiss Attempt", "kiss_attempt"
// and "KissAttempt" compare equal.
func fold(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseIntent maps free text onto the closed Intent set, defaulting to React.
func ParseIntent(s string) (Intent, bool) {
	f := fold(s)
	for _, i := range allIntents {
		if fold(string(i)) == f {
			return i, true
		}
	}
	switch f {
	case "kiss":
		return IntentKissAttempt, true
	case "apology":
		return IntentApologize, true
	}
	return IntentReact, false
}

// ParseModifier maps free text onto the closed Modifier set, defaulting to Generic.
func ParseModifier(s string) (Modifier, bool) {
	f := fold(s)
	for _, m := range allModifiers {
		if fold(string(m)) == f {
			return m, true
		}
	}
	return ModifierGeneric, false
}

// ParseTone maps free text onto the closed Tone set, defaulting to Flat.
func ParseTone(s string) (Tone, bool) {
	f := fold(s)
	for _, t := range allTones {
		if fold(string(t)) == f {
			return t, true
		}
	}
	return ToneFlat, false
}

// Tag is the classifier's reading of one player message.
type Tag struct {
	Intent   Intent   `yaml:"intent" json:"intent"`
	Modifier Modifier `yaml:"modifier" json:"modifier"`
	Tone     Tone     `yaml:"tone" json:"tone"`
	Topic    string   `yaml:"topic" json:"topic"`
	Flags    []string `yaml:"flags,omitempty" json:"flags,omitempty"`
}

// RawTag is the loosely-typed shape a language model returns. It never
// reaches the scoring rules; Normalize converts it at the boundary.
type RawTag struct {
	Intent   string   `yaml:"intent" json:"intent"`
	Modifier string   `yaml:"modifier" json:"modifier"`
	Tone     string   `yaml:"tone" json:"tone"`
	Topic    string   `yaml:"topic" json:"topic"`
	Flags    []string `yaml:"flags" json:"flags"`
}

// UnmarshalYAML decodes a tag field by field, accepting the shapes models
// actually produce: flags as a list or a comma-separated string, and text
// fields as a scalar or a list. Fields of any other shape are left empty.
func (r *RawTag) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("tag is a %s, not a mapping", n.ShortTag())
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		val := n.Content[i+1]
		switch fold(n.Content[i].Value) {
		case "intent":
			r.Intent = nodeText(val)
		case "modifier":
			r.Modifier = nodeText(val)
		case "tone":
			r.Tone = nodeText(val)
		case "topic":
			r.Topic = nodeText(val)
		case "flags":
			r.Flags = append(r.Flags, nodeList(val)...)
		}
	}
	return nil
}

func nodeText(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return ""
		}
		return n.Value
	case yaml.SequenceNode:
		return strings.Join(nodeList(n), ", ")
	}
	return ""
}

func nodeList(n *yaml.Node) []string {
	var out []string
	switch n.Kind {
	case yaml.ScalarNode:
		for _, part := range strings.Split(nodeText(n), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			if c.Kind == yaml.ScalarNode {
				out = append(out, nodeList(c)...)
			}
		}
	}
	return out
}

// Normalize defaults every unknown or missing field to React/Generic/Flat.
// Flags are trimmed and deduplicated.
func (r RawTag) Normalize() Tag {
	intent, _ := ParseIntent(r.Intent)
	modifier, _ := ParseModifier(r.Modifier)
	tone, _ := ParseTone(r.Tone)

	t := Tag{
		Intent:   intent,
		Modifier: modifier,
		Tone:     tone,
		Topic:    strings.TrimSpace(r.Topic),
	}
	for _, f := range r.Flags {
		f = strings.TrimSpace(f)
		if f == "" || t.HasFlag(f) {
			continue
		}
		t.Flags = append(t.Flags, f)
	}
	return t
}

// HasFlag reports whether the tag carries flag, ignoring case and separators.
func (t Tag) HasFlag(flag string) bool {
	want := fold(flag)
	for _, f := range t.Flags {
		if fold(f) == want {
			return true
		}
	}
	return false
}

// HasAnyFlag reports whether the tag carries at least one of flags.
func (t Tag) HasAnyFlag(flags ...string) bool {
	for _, f := range flags {
		if t.HasFlag(f) {
			return true
		}
	}
	return false
}

// WithFlag returns a copy of t carrying flag.
func (t Tag) WithFlag(flag string) Tag {
	if t.HasFlag(flag) {
		return t
	}
	out := t
	out.Flags = append(append([]string(nil), t.Flags...), flag)
	return out
}

// ViolationFlags returns the flags that read as a content violation.
func (t Tag) ViolationFlags() []string {
	var out []string
	for _, f := range t.Flags {
		lf := strings.ToLower(f)
		for _, m := range violationMarkers {
			if strings.Contains(lf, m) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// InputMode says whether the player typed speech or a described action.
type InputMode string

const (
	ModeDialogue InputMode = "dialogue"
	ModeAction   InputMode = "action"
)

// ParseInputMode defaults anything unrecognized to dialogue.
func ParseInputMode(s string) InputMode {
	if fold(s) == "action" {
		return ModeAction
	}
	return ModeDialogue
}
