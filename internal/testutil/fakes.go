package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/talegrid/internal/intent"
	"github.com/specialistvlad/talegrid/internal/narrative"
)

// Narrator is a narrative.Generator that records every prompt and answers
// with "[topic] instruction".
type Narrator struct {
	mu      sync.Mutex
	prompts []narrative.Prompt
	Err     error
}

var _ narrative.Generator = (*Narrator)(nil)

func (n *Narrator) Generate(_ context.Context, p narrative.Prompt) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prompts = append(n.prompts, p)
	if n.Err != nil {
		return "", &narrative.ServiceError{Service: "fake", Topic: p.Topic, Err: n.Err}
	}
	return fmt.Sprintf("[%s] %s", p.Topic, p.Instruction), nil
}

// Prompts returns a copy of the recorded prompts.
func (n *Narrator) Prompts() []narrative.Prompt {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]narrative.Prompt(nil), n.prompts...)
}

// Topics returns the topic of every recorded prompt, in order.
func (n *Narrator) Topics() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.prompts))
	for i, p := range n.prompts {
		out[i] = p.Topic
	}
	return out
}

// Count returns how many prompts had topic.
func (n *Narrator) Count(topic string) int {
	c := 0
	for _, t := range n.Topics() {
		if t == topic {
			c++
		}
	}
	return c
}

// Classifier answers from a script, one label per call. An exhausted script
// yields the set's default label. A non-nil Err fails every call.
type Classifier struct {
	mu     sync.Mutex
	script []string
	Calls  int
	Err    error
}

var _ intent.Classifier = (*Classifier)(nil)

// NewClassifier returns a classifier that replies with labels in order.
func NewClassifier(labels ...string) *Classifier {
	return &Classifier{script: labels}
}

func (c *Classifier) Classify(_ context.Context, _ string, set intent.LabelSet) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.Err != nil {
		return "", &intent.ServiceError{Operation: "classify " + set.Name, Err: c.Err}
	}
	if len(c.script) == 0 {
		return set.Default, nil
	}
	label := c.script[0]
	c.script = c.script[1:]
	return set.Normalize(label), nil
}

// Choices answers AnalyzeChoice from a script. An exhausted script yields an
// empty analysis.
type Choices struct {
	mu     sync.Mutex
	script []intent.Choice
}

var _ intent.ChoiceAnalyzer = (*Choices)(nil)

func NewChoices(script ...intent.Choice) *Choices {
	return &Choices{script: script}
}

func (c *Choices) AnalyzeChoice(context.Context, string, []string) (intent.Choice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.script) == 0 {
		return intent.Choice{}, nil
	}
	out := c.script[0]
	c.script = c.script[1:]
	return out, nil
}

// Names answers ValidateName from a script. An exhausted script rejects.
type Names struct {
	mu     sync.Mutex
	script []intent.Verdict
}

var _ intent.NameValidator = (*Names)(nil)

func NewNames(script ...intent.Verdict) *Names {
	return &Names{script: script}
}

func (n *Names) ValidateName(context.Context, string) (intent.Verdict, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.script) == 0 {
		return intent.Verdict{Reason: "no name given"}, nil
	}
	out := n.script[0]
	n.script = n.script[1:]
	return out, nil
}

// Chose is shorthand for a settled choice.
func Chose(name string) intent.Choice {
	return intent.Choice{Choice: name, Chosen: true}
}

// Asked is shorthand for a question about an option.
func Asked(name string) intent.Choice {
	return intent.Choice{Choice: name, InfoRequest: true}
}

// ValidName is shorthand for an accepted name.
func ValidName(name string) intent.Verdict {
	return intent.Verdict{Valid: true, Name: name}
}

// InvalidName is shorthand for a rejected name.
func InvalidName(reason string) intent.Verdict {
	return intent.Verdict{Reason: reason}
}
