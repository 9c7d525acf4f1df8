package charcreation

import (
	"context"
	"errors"
	"strings"

	"github.com/specialistvlad/talegrid/internal/adventure"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/state"
)

// RequestName asks the player for a character name.
func (m *Module) RequestName(ctx context.Context, st *state.SessionState) (state.Update, error) {
	text, err := m.Services.Narrate(ctx, st, "request_name", "Ask the player for their character's name.")
	if err != nil {
		return state.Update{}, err
	}
	return adventure.Present(st, text), nil
}

// ValidateName overwrites the cache box with {valid, name, reason}.
func (m *Module) ValidateName(ctx context.Context, st *state.SessionState) (state.Update, error) {
	v, err := m.Services.Names.ValidateName(ctx, st.LastUserMessage())
	if err != nil {
		return state.Update{}, err
	}
	ctxlog.FromContext(ctx).Debug("Validated name.", "valid", v.Valid, "reason", v.Reason)
	return state.Update{CacheBox: v.CacheBox()}, nil
}

// NameOutcome leaves the loop on a valid name.
func NameOutcome(_ context.Context, st *state.SessionState) (string, error) {
	if adventure.CacheBool(st, "valid") && strings.TrimSpace(adventure.CacheString(st, "name")) != "" {
		return LabelExit, nil
	}
	return LabelAgain, nil
}

// ExplainInvalidName tells the player why the name was rejected and asks again.
func (m *Module) ExplainInvalidName(ctx context.Context, st *state.SessionState) (state.Update, error) {
	reason := adventure.CacheString(st, "reason")
	if reason == "" {
		reason = "the name could not be accepted"
	}
	text, err := m.Services.Narrate(ctx, st, "explain_invalid_name",
		"Explain why the name was rejected and ask for another name.", "Reason: "+reason)
	if err != nil {
		return state.Update{}, err
	}
	return adventure.Present(st, text), nil
}

// CommitName stores the validated name.
func (m *Module) CommitName(_ context.Context, st *state.SessionState) (state.Update, error) {
	name := strings.TrimSpace(adventure.CacheString(st, "name"))
	if name == "" {
		return state.Update{}, errors.New("no validated name in cache box")
	}
	return nameUpdate(name, "Welcome, "+name+"."), nil
}

func (m *Module) newDefaultName(in *NameInput) (graph.NodeHandler, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("name must not be empty")
	}
	return graph.HandlerFunc(func(ctx context.Context, _ *state.SessionState) (state.Update, error) {
		ctxlog.FromContext(ctx).Info("🔁 Name attempts exhausted, using the default name.", "name", name)
		return nameUpdate(name, "Since no name would stick, the bards will call you "+name+"."), nil
	}), nil
}

func nameUpdate(name, text string) state.Update {
	return state.Update{
		SystemMessages: []string{text},
		Character:      &state.CharacterPatch{Name: state.Ptr(name)},
		GameContext:    []string{"Named the character " + name},
	}
}
