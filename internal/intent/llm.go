package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/llm"
)

const classifySystem = `You classify a player's reply in a text adventure.
Answer with exactly one label from the list and nothing else.`

const choiceSystem = `You analyse a player's reply to a list of options in a text adventure.
Respond only with one JSON object: {"choice": "<option or empty>", "chosen": true/false, "info_request": true/false}.
"chosen" is true only when the player clearly commits to one option. "info_request" is true when the player asks about the options.
Copy the option exactly as the player named it, even if it is not in the list.`

const nameSystem = `You are the game master of a Dungeons & Dragons style text adventure validating a character name.
Respond only with one JSON object: {"is_valid": true/false, "reason": "<short explanation>", "name": "<the extracted name>"}.
A valid name is 2 to 24 characters, fits a fantasy setting and is not offensive.`

// ServiceError reports a failed call to the classification model.
type ServiceError struct {
	Operation string
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("intent service failed to %s: %v", e.Operation, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// LLM classifies with a chat completion model. Output outside the label set
// or unparseable JSON degrades to the set default or an empty analysis.
type LLM struct {
	c llm.Completer
}

var (
	_ Classifier     = (*LLM)(nil)
	_ ChoiceAnalyzer = (*LLM)(nil)
	_ NameValidator  = (*LLM)(nil)
)

// NewLLM returns classifiers backed by c.
func NewLLM(c llm.Completer) *LLM {
	return &LLM{c: c}
}

func (l *LLM) Classify(ctx context.Context, utterance string, set LabelSet) (string, error) {
	user := fmt.Sprintf("Labels: %s\nPlayer reply: %q", strings.Join(set.Labels, ", "), utterance)
	out, err := l.c.Complete(ctx, classifySystem, user)
	if err != nil {
		return "", &ServiceError{Operation: "classify " + set.Name, Err: err}
	}
	label := set.Normalize(out)
	if label == set.Default && !strings.EqualFold(strings.TrimSpace(out), set.Default) {
		ctxlog.FromContext(ctx).Warn("Classifier answered outside the label set, using default.", "set", set.Name, "raw", out, "default", set.Default)
	}
	return label, nil
}

func (l *LLM) AnalyzeChoice(ctx context.Context, utterance string, options []string) (Choice, error) {
	user := fmt.Sprintf("Options: %s\nPlayer reply: %q", strings.Join(options, ", "), utterance)
	out, err := l.c.Complete(ctx, choiceSystem, user)
	if err != nil {
		return Choice{}, &ServiceError{Operation: "analyze choice", Err: err}
	}
	var c Choice
	if !decodeJSON(ctx, out, &c) {
		return Choice{}, nil
	}
	c.Choice = strings.TrimSpace(c.Choice)
	return c, nil
}

func (l *LLM) ValidateName(ctx context.Context, utterance string) (Verdict, error) {
	out, err := l.c.Complete(ctx, nameSystem, fmt.Sprintf("Player reply: %q", utterance))
	if err != nil {
		return Verdict{}, &ServiceError{Operation: "validate name", Err: err}
	}
	var v Verdict
	if !decodeJSON(ctx, out, &v) {
		return Verdict{Reason: "the name could not be understood"}, nil
	}
	v.Name = strings.TrimSpace(v.Name)
	if v.Valid && v.Name == "" {
		v.Valid = false
		v.Reason = "no name was given"
	}
	return v, nil
}

func decodeJSON(ctx context.Context, out string, v any) bool {
	raw, ok := llm.ExtractJSON(out)
	if !ok {
		ctxlog.FromContext(ctx).Warn("Model reply contained no JSON object.", "raw", out)
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		ctxlog.FromContext(ctx).Warn("Model reply was not valid JSON.", "raw", out, "error", err)
		return false
	}
	return true
}
