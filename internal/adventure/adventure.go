// Package adventure bundles the collaborators that game handlers share and a
// few helpers for building their state updates.
package adventure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/talegrid/internal/catalog"
	"github.com/specialistvlad/talegrid/internal/dice"
	"github.com/specialistvlad/talegrid/internal/intent"
	"github.com/specialistvlad/talegrid/internal/lore"
	"github.com/specialistvlad/talegrid/internal/narrative"
	"github.com/specialistvlad/talegrid/internal/state"
)

// Services are the external collaborators of every handler. All of them are
// shared across sessions and must be safe for concurrent use.
type Services struct {
	Catalog    catalog.Catalog
	Narrator   narrative.Generator
	Classifier intent.Classifier
	Choices    intent.ChoiceAnalyzer
	Names      intent.NameValidator
	Dice       dice.Roller
	Lore       lore.Library
}

// Validate reports every missing collaborator.
func (s *Services) Validate() error {
	var missing []string
	if s.Catalog == nil {
		missing = append(missing, "catalog")
	}
	if s.Narrator == nil {
		missing = append(missing, "narrator")
	}
	if s.Classifier == nil {
		missing = append(missing, "classifier")
	}
	if s.Choices == nil {
		missing = append(missing, "choice analyzer")
	}
	if s.Names == nil {
		missing = append(missing, "name validator")
	}
	if s.Dice == nil {
		missing = append(missing, "dice roller")
	}
	if s.Lore == nil {
		missing = append(missing, "lore library")
	}
	if len(missing) > 0 {
		return fmt.Errorf("adventure services incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Narrate asks the narrator for text about topic, filling the prompt from st.
func (s *Services) Narrate(ctx context.Context, st *state.SessionState, topic, instruction string, facts ...string) (string, error) {
	return s.Narrator.Generate(ctx, narrative.FromState(st, topic, instruction, facts...))
}

// Recall looks up the lore of kind most relevant to query and renders it as
// narration facts.
func (s *Services) Recall(ctx context.Context, kind lore.Kind, query string) ([]string, error) {
	passages, err := s.Lore.Search(ctx, kind, query, lore.DefaultK)
	if err != nil {
		return nil, fmt.Errorf("recall %s lore: %w", kind, err)
	}
	return lore.Facts(passages), nil
}

// Kind selects between the race and class halves of the catalog.
type Kind string

const (
	KindRace  Kind = "race"
	KindClass Kind = "class"
)

// ParseKind validates a kind argument from a grid file.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRace, KindClass:
		return k, nil
	case "":
		return "", errors.New("kind is required")
	default:
		return "", fmt.Errorf("unknown kind '%s', expected 'race' or 'class'", s)
	}
}

// Options lists the catalog entries of kind.
func (s *Services) Options(ctx context.Context, k Kind) ([]catalog.Entry, error) {
	if k == KindClass {
		return s.Catalog.ListClasses(ctx)
	}
	return s.Catalog.ListRaces(ctx)
}

// Stats returns the catalog bonuses of one entry of kind.
func (s *Services) Stats(ctx context.Context, k Kind, name string) (catalog.Stats, error) {
	if k == KindClass {
		return s.Catalog.ClassStats(ctx, name)
	}
	return s.Catalog.RaceStats(ctx, name)
}

// Describe renders catalog entries as narration facts.
func Describe(entries []catalog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		if e.Description == "" {
			out[i] = e.Name
			continue
		}
		out[i] = e.Name + ": " + e.Description
	}
	return out
}

// Present builds the update of a presenting node: one narration and a
// QuestionTime bump.
func Present(st *state.SessionState, text string) state.Update {
	return state.Update{
		SystemMessages: []string{text},
		QuestionTime:   state.Ptr(st.QuestionTime + 1),
	}
}

// Say builds an update carrying a single narration.
func Say(text string) state.Update {
	return state.Update{SystemMessages: []string{text}}
}

// CacheString reads a string from the analysis scratch map.
func CacheString(st *state.SessionState, key string) string {
	s, _ := st.CacheBox[key].(string)
	return s
}

// CacheBool reads a bool from the analysis scratch map.
func CacheBool(st *state.SessionState, key string) bool {
	b, _ := st.CacheBox[key].(bool)
	return b
}
