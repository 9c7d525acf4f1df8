package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/llm"
)

const systemPrompt = `You are the game master of a Dungeons & Dragons style text adventure.
Narrate in the second person, stay in character and keep each reply under 150 words.
Mention every listed fact. Never decide anything on the player's behalf.`

// LLM generates narration with a chat completion model.
type LLM struct {
	c llm.Completer
}

// NewLLM returns a generator backed by c.
func NewLLM(c llm.Completer) *LLM {
	return &LLM{c: c}
}

func (g *LLM) Generate(ctx context.Context, p Prompt) (string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Requesting narration.", "topic", p.Topic)

	out, err := g.c.Complete(ctx, systemPrompt, render(p))
	if err != nil {
		return "", &ServiceError{Service: "narrative", Topic: p.Topic, Err: err}
	}
	if out == "" {
		return "", &ServiceError{Service: "narrative", Topic: p.Topic, Err: fmt.Errorf("empty narration")}
	}
	return out, nil
}

func render(p Prompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task (%s): %s\n", p.Topic, p.Instruction)
	if p.Phase != "" {
		fmt.Fprintf(&b, "Game phase: %s\n", p.Phase.Title())
	}
	if c := describeCharacter(p.Character); c != "" {
		fmt.Fprintf(&b, "Character: %s\n", c)
	}
	if p.Summary != "" {
		fmt.Fprintf(&b, "Story so far: %s\n", p.Summary)
	}
	if len(p.History) > 0 {
		b.WriteString("Recent events:\n")
		for _, h := range p.History {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}
	if len(p.Facts) > 0 {
		b.WriteString("Facts:\n")
		for _, f := range p.Facts {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if p.PlayerInput != "" {
		fmt.Fprintf(&b, "Player said: %q\n", p.PlayerInput)
	}
	return b.String()
}
