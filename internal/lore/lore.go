// Package lore looks up rulebook and background passages that ground the
// game master's answers to free-form player questions.
package lore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Kind selects a collection of passages.
type Kind string

const (
	KindRule  Kind = "rule"
	KindStory Kind = "story"
)

// DefaultK is how many passages a lookup returns when the caller does not say.
const DefaultK = 2

// ParseKind validates a kind argument from a grid file.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRule, KindStory:
		return k, nil
	case "":
		return "", errors.New("lore kind is required")
	default:
		return "", fmt.Errorf("unknown lore kind '%s', expected 'rule' or 'story'", s)
	}
}

// Passage is one searchable piece of lore.
type Passage struct {
	Kind  Kind
	Title string
	Text  string
}

// Fact renders the passage as a narration fact.
func (p Passage) Fact() string {
	if p.Title == "" {
		return p.Text
	}
	return p.Title + ": " + p.Text
}

// Library finds the passages of a kind most relevant to a query. An empty
// result is not an error. Implementations must be safe for concurrent use.
type Library interface {
	Search(ctx context.Context, kind Kind, query string, k int) ([]Passage, error)
}

// Facts renders passages as narration facts.
func Facts(passages []Passage) []string {
	out := make([]string, len(passages))
	for i, p := range passages {
		out[i] = p.Fact()
	}
	return out
}

// Terms splits text into distinct lowercase search terms. Words shorter than
// three letters carry no signal and are dropped.
func Terms(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
