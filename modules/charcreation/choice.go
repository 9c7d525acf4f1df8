package charcreation

import (
	"context"
	"fmt"

	"github.com/specialistvlad/talegrid/internal/adventure"
	"github.com/specialistvlad/talegrid/internal/catalog"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/state"
)

func topic(k adventure.Kind) string {
	return "choose_" + string(k)
}

func (m *Module) presentOptions(k adventure.Kind) graph.NodeHandler {
	return graph.HandlerFunc(func(ctx context.Context, st *state.SessionState) (state.Update, error) {
		entries, err := m.Services.Options(ctx, k)
		if err != nil {
			return state.Update{}, err
		}
		instruction := fmt.Sprintf("Present every available %s and ask the player to choose one.", k)
		if st.QuestionTime > 0 {
			instruction = fmt.Sprintf("The player has not chosen a valid %s yet. Present the options again and ask for a choice.", k)
		}
		text, err := m.Services.Narrate(ctx, st, topic(k), instruction, adventure.Describe(entries)...)
		if err != nil {
			return state.Update{}, err
		}
		return adventure.Present(st, text), nil
	})
}

// analyzeChoice overwrites the cache box with {choice, chosen, info_request}.
func (m *Module) analyzeChoice(k adventure.Kind) graph.NodeHandler {
	return graph.HandlerFunc(func(ctx context.Context, st *state.SessionState) (state.Update, error) {
		entries, err := m.Services.Options(ctx, k)
		if err != nil {
			return state.Update{}, err
		}
		c, err := m.Services.Choices.AnalyzeChoice(ctx, st.LastUserMessage(), catalog.Names(entries))
		if err != nil {
			return state.Update{}, err
		}
		ctxlog.FromContext(ctx).Debug("Analysed choice.", "kind", k, "choice", c.Choice, "chosen", c.Chosen, "info_request", c.InfoRequest)
		return state.Update{CacheBox: c.CacheBox()}, nil
	})
}

// choiceOutcome commits only choices that exist in the catalog.
func (m *Module) choiceOutcome(k adventure.Kind) graph.Router {
	return graph.RouterFunc(func(ctx context.Context, st *state.SessionState) (string, error) {
		if adventure.CacheBool(st, "info_request") {
			return LabelInfo, nil
		}
		if !adventure.CacheBool(st, "chosen") {
			return LabelAgain, nil
		}
		entries, err := m.Services.Options(ctx, k)
		if err != nil {
			return "", err
		}
		choice := adventure.CacheString(st, "choice")
		if _, ok := catalog.Find(entries, choice); !ok {
			ctxlog.FromContext(ctx).Info("Rejected choice outside the catalog.", "kind", k, "choice", choice)
			return LabelAgain, nil
		}
		return LabelExit, nil
	})
}

func (m *Module) answerOptionQuestion(k adventure.Kind) graph.NodeHandler {
	return graph.HandlerFunc(func(ctx context.Context, st *state.SessionState) (state.Update, error) {
		entries, err := m.Services.Options(ctx, k)
		if err != nil {
			return state.Update{}, err
		}
		facts := adventure.Describe(entries)
		if asked, ok := catalog.Find(entries, adventure.CacheString(st, "choice")); ok {
			stats, err := m.Services.Stats(ctx, k, asked.Name)
			if err != nil {
				return state.Update{}, err
			}
			facts = append(facts, fmt.Sprintf("%s bonuses: strength %d, agility %d, mentality %d, luck %d, intelligence %d, base hp %d",
				asked.Name, stats.Strength, stats.Agility, stats.Mentality, stats.Luck, stats.Intelligence, stats.BaseHP))
		}
		instruction := fmt.Sprintf("Answer the player's question about the available %s options, then ask which one they choose.", k)
		text, err := m.Services.Narrate(ctx, st, "answer_option_question", instruction, facts...)
		if err != nil {
			return state.Update{}, err
		}
		return adventure.Present(st, text), nil
	})
}

// commitChoice fixes the analysed choice into the character, using the
// catalog's spelling of the name.
func (m *Module) commitChoice(k adventure.Kind) graph.NodeHandler {
	return graph.HandlerFunc(func(ctx context.Context, st *state.SessionState) (state.Update, error) {
		entries, err := m.Services.Options(ctx, k)
		if err != nil {
			return state.Update{}, err
		}
		choice := adventure.CacheString(st, "choice")
		e, ok := catalog.Find(entries, choice)
		if !ok {
			return state.Update{}, fmt.Errorf("%s %q: %w", k, choice, catalog.ErrNotFound)
		}
		return commit(k, e.Name, fmt.Sprintf("You have chosen the %s %s.", e.Name, k)), nil
	})
}

// autoChoice is the retry fallback: it commits the first catalog entry.
func (m *Module) autoChoice(k adventure.Kind) graph.NodeHandler {
	return graph.HandlerFunc(func(ctx context.Context, st *state.SessionState) (state.Update, error) {
		entries, err := m.Services.Options(ctx, k)
		if err != nil {
			return state.Update{}, err
		}
		if len(entries) == 0 {
			return state.Update{}, fmt.Errorf("catalog has no %s entries", k)
		}
		name := entries[0].Name
		ctxlog.FromContext(ctx).Info("🎲 No choice settled, assigning the first catalog entry.", "kind", k, "choice", name)
		return commit(k, name, fmt.Sprintf("Fate decides for you: you will be a %s.", name)), nil
	})
}

func commit(k adventure.Kind, name, text string) state.Update {
	patch := &state.CharacterPatch{}
	if k == adventure.KindClass {
		patch.Profession = state.Ptr(name)
	} else {
		patch.Race = state.Ptr(name)
	}
	return state.Update{
		SystemMessages: []string{text},
		Character:      patch,
		GameContext:    []string{fmt.Sprintf("Chose %s: %s", k, name)},
	}
}
