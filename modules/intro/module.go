// Package intro implements the explanation loops that open a session: the
// game master presents a topic, asks whether the player has more questions
// and presents again until the player is done.
package intro

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/talegrid/internal/adventure"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/intent"
	"github.com/specialistvlad/talegrid/internal/lore"
	"github.com/specialistvlad/talegrid/internal/registry"
	"github.com/specialistvlad/talegrid/internal/state"
)

// Labels returned by the question_left router.
const (
	LabelAgain = "again"
	LabelExit  = "exit"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Services *adventure.Services
}

// TopicInput defines the arguments for the present_topic handler.
type TopicInput struct {
	Topic       string   `cty:"topic"`
	Instruction string   `cty:"instruction"`
	Facts       []string `cty:"facts"`
	Lore        string   `cty:"lore"`
}

const followUp = "Answer the player's latest question about this topic, then ask whether they have any more questions."

// NewPresentTopic builds a presenting node. On revisits it answers the
// player's last question instead of repeating the opening, grounded on the
// lore of the node's kind when one is set.
func (m *Module) NewPresentTopic(in *TopicInput) (graph.NodeHandler, error) {
	if in.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if in.Instruction == "" {
		in.Instruction = fmt.Sprintf("Present the %s, then ask whether the player has any questions.", in.Topic)
	}
	var kind lore.Kind
	if in.Lore != "" {
		k, err := lore.ParseKind(in.Lore)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	return graph.HandlerFunc(func(ctx context.Context, st *state.SessionState) (state.Update, error) {
		instruction := in.Instruction
		facts := in.Facts
		if question := st.LastUserMessage(); st.QuestionTime > 0 && question != "" {
			instruction = followUp
			if kind != "" {
				recalled, err := m.Services.Recall(ctx, kind, question)
				if err != nil {
					return state.Update{}, err
				}
				facts = append(append([]string(nil), in.Facts...), recalled...)
			}
		}
		text, err := m.Services.Narrate(ctx, st, in.Topic, instruction, facts...)
		if err != nil {
			return state.Update{}, err
		}
		return adventure.Present(st, text), nil
	}), nil
}

// QuestionLeft routes yes/no loops. POSITIVE and UNCLEAR keep the loop going,
// NEGATIVE leaves it.
func (m *Module) QuestionLeft(ctx context.Context, st *state.SessionState) (string, error) {
	label, err := m.Services.Classifier.Classify(ctx, st.LastUserMessage(), intent.YesNo)
	if err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Classified yes/no reply.", "label", label)
	if label == intent.Negative {
		return LabelExit, nil
	}
	return LabelAgain, nil
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("present_topic", registry.Handler(m.NewPresentTopic))
	r.RegisterRouter("question_left", registry.StaticRouter(graph.RouterFunc(m.QuestionLeft)))
}
