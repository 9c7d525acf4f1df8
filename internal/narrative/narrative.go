// Package narrative produces the game master's narration. The graph core never
// generates language itself; handlers describe what they need in a Prompt and
// a Generator turns it into text.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/talegrid/internal/state"
)

// Prompt describes one piece of narration.
type Prompt struct {
	// Topic identifies the kind of narration, e.g. "introduction" or "describe_village".
	Topic string
	// Instruction is what the narration has to accomplish.
	Instruction string
	// Facts must appear in the narration, e.g. catalog listings or a rejection reason.
	Facts []string
	// PlayerInput is the utterance being answered, if any.
	PlayerInput string

	Character state.CharacterState
	Phase     state.GamePhase
	History   []string
	Summary   string
}

// Generator turns prompts into narration. Implementations must be safe for
// concurrent use; failures are reported as *ServiceError.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, p Prompt) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, p Prompt) (string, error) { return f(ctx, p) }

// ServiceError reports a failed call to a language service.
type ServiceError struct {
	Service string
	Topic   string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service failed for topic '%s': %v", e.Service, e.Topic, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// FromState fills the session-derived fields of a prompt.
func FromState(st *state.SessionState, topic, instruction string, facts ...string) Prompt {
	return Prompt{
		Topic:       topic,
		Instruction: instruction,
		Facts:       facts,
		PlayerInput: st.LastUserMessage(),
		Character:   st.Character,
		Phase:       st.Phase,
		History:     st.GameContext,
		Summary:     st.StorySummary,
	}
}

func describeCharacter(c state.CharacterState) string {
	var parts []string
	if c.Name != "" {
		parts = append(parts, "name: "+c.Name)
	}
	if c.Race != "" {
		parts = append(parts, "race: "+c.Race)
	}
	if c.Profession != "" {
		parts = append(parts, "class: "+c.Profession)
	}
	if c.Location != "" {
		parts = append(parts, fmt.Sprintf("location: %s (%s)", c.Location, c.LocationType))
	}
	if c.AttackItem != "" || c.DefenseItem != "" {
		parts = append(parts, fmt.Sprintf("items: %s, %s", c.AttackItem, c.DefenseItem))
	}
	if !c.Status.IsZero() {
		s := c.Status
		parts = append(parts, fmt.Sprintf("status: STR %d AGI %d MEN %d LUK %d INT %d HP %d/%d",
			s.Strength, s.Agility, s.Mentality, s.Luck, s.Intelligence, s.CurrentHP, s.BaseHP))
	}
	return strings.Join(parts, "; ")
}
