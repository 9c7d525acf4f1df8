// Package village implements the exploration loop of the starting village.
// Every player action is classified into one of the village intents; all of
// them lead back to the square except heading for the dungeon, which ends the act.
package village

import (
	"context"
	"fmt"

	"github.com/specialistvlad/talegrid/internal/adventure"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/dice"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/intent"
	"github.com/specialistvlad/talegrid/internal/lore"
	"github.com/specialistvlad/talegrid/internal/registry"
	"github.com/specialistvlad/talegrid/internal/state"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Services *adventure.Services
}

// BasicQuestion describes the current location and asks what the player does.
func (m *Module) BasicQuestion(ctx context.Context, st *state.SessionState) (state.Update, error) {
	text, err := m.Services.Narrate(ctx, st, "basic_question",
		"Briefly describe where the character stands and ask what they do next.")
	if err != nil {
		return state.Update{}, err
	}
	return adventure.Present(st, text), nil
}

// Intent routes the player's action to one of the village labels.
func (m *Module) Intent(ctx context.Context, st *state.SessionState) (string, error) {
	label, err := m.Services.Classifier.Classify(ctx, st.LastUserMessage(), intent.Village)
	if err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Classified village action.", "label", label)
	return label, nil
}

// DescribeVillage answers a LOOKAROUND action.
func (m *Module) DescribeVillage(ctx context.Context, st *state.SessionState) (state.Update, error) {
	text, err := m.Services.Narrate(ctx, st, "describe_village",
		"Describe what the character sees around them: buildings, people and anything unusual.")
	if err != nil {
		return state.Update{}, err
	}
	return state.Update{
		SystemMessages: []string{text},
		GameContext:    []string{"Looked around " + st.Character.Location},
	}, nil
}

// Disposition maps a d20 roll to how an NPC receives the character.
func Disposition(roll int) string {
	switch {
	case roll >= 15:
		return "friendly"
	case roll <= 5:
		return "hostile"
	default:
		return "neutral"
	}
}

// TalkingLikeNPC answers a TALKING action in the voice of a villager whose
// mood is decided by a d20 roll.
func (m *Module) TalkingLikeNPC(ctx context.Context, st *state.SessionState) (state.Update, error) {
	roll := dice.D20(m.Services.Dice)
	mood := Disposition(roll)
	ctxlog.FromContext(ctx).Debug("Rolled NPC disposition.", "roll", roll, "disposition", mood)

	text, err := m.Services.Narrate(ctx, st, "talking_like_npc",
		"Reply in character as a villager the player is talking to.",
		fmt.Sprintf("The villager is %s (d20 roll: %d)", mood, roll))
	if err != nil {
		return state.Update{}, err
	}
	return state.Update{
		SystemMessages: []string{text},
		GameContext:    []string{fmt.Sprintf("Talked with a %s villager", mood)},
	}, nil
}

// AnswerToOther handles actions that fit no other village intent.
func (m *Module) AnswerToOther(ctx context.Context, st *state.SessionState) (state.Update, error) {
	facts, err := m.Services.Recall(ctx, lore.KindStory, st.LastUserMessage())
	if err != nil {
		return state.Update{}, err
	}
	text, err := m.Services.Narrate(ctx, st, "answer_to_other",
		"Respond to the player's action or question as the game master, staying within the village.", facts...)
	if err != nil {
		return state.Update{}, err
	}
	return adventure.Say(text), nil
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("village_basic_question", registry.StaticHandler(graph.HandlerFunc(m.BasicQuestion)))
	r.RegisterHandler("describe_village", registry.StaticHandler(graph.HandlerFunc(m.DescribeVillage)))
	r.RegisterHandler("talking_like_npc", registry.StaticHandler(graph.HandlerFunc(m.TalkingLikeNPC)))
	r.RegisterHandler("answer_to_other", registry.StaticHandler(graph.HandlerFunc(m.AnswerToOther)))
	r.RegisterRouter("village_intent", registry.StaticRouter(graph.RouterFunc(m.Intent)))
}
