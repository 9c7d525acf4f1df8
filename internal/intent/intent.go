// Package intent turns free-text player input into the closed label sets the
// graph routers switch on.
package intent

import (
	"context"
	"slices"
	"strings"
	"unicode"
)

// Yes/no labels.
const (
	Positive = "POSITIVE"
	Negative = "NEGATIVE"
	Unclear  = "UNCLEAR"
)

// Village labels.
const (
	LookAround  = "LOOKAROUND"
	Talking     = "TALKING"
	Other       = "OTHER"
	GoToDungeon = "GOTODUNGEON"
)

// LabelSet is a closed set of labels plus the label used when a classifier
// produces anything outside it.
type LabelSet struct {
	Name    string
	Labels  []string
	Default string
}

var (
	YesNo   = LabelSet{Name: "yes_no", Labels: []string{Positive, Negative, Unclear}, Default: Unclear}
	Village = LabelSet{Name: "village", Labels: []string{LookAround, Talking, Other, GoToDungeon}, Default: Other}
)

// Contains reports whether label is a member of the set.
func (s LabelSet) Contains(label string) bool {
	return slices.Contains(s.Labels, label)
}

// Normalize maps raw classifier output onto the set. Case, surrounding
// whitespace and punctuation are ignored; anything else becomes Default.
func (s LabelSet) Normalize(raw string) string {
	l := strings.ToUpper(strings.TrimFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
	if s.Contains(l) {
		return l
	}
	return s.Default
}

// Classifier assigns a label from set to an utterance. The returned label is
// always a member of set.
type Classifier interface {
	Classify(ctx context.Context, utterance string, set LabelSet) (string, error)
}

// Choice is the analysis of a reply to a list of options.
type Choice struct {
	Choice      string `json:"choice"`
	Chosen      bool   `json:"chosen"`
	InfoRequest bool   `json:"info_request"`
}

// CacheBox renders the analysis the way analysis nodes store it.
func (c Choice) CacheBox() map[string]any {
	return map[string]any{"choice": c.Choice, "chosen": c.Chosen, "info_request": c.InfoRequest}
}

// ChoiceAnalyzer decides whether an utterance picks one of options or asks about them.
type ChoiceAnalyzer interface {
	AnalyzeChoice(ctx context.Context, utterance string, options []string) (Choice, error)
}

// Verdict is the result of validating a proposed character name.
type Verdict struct {
	Valid  bool   `json:"is_valid"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// CacheBox renders the verdict the way analysis nodes store it.
func (v Verdict) CacheBox() map[string]any {
	return map[string]any{"valid": v.Valid, "name": v.Name, "reason": v.Reason}
}

// NameValidator checks whether an utterance contains an acceptable character name.
type NameValidator interface {
	ValidateName(ctx context.Context, utterance string) (Verdict, error)
}

// words splits s into lower-case word tokens. Apostrophes stay inside words.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// containsPhrase reports whether the token sequence of phrase appears in toks.
func containsPhrase(toks []string, phrase string) bool {
	p := words(phrase)
	if len(p) == 0 || len(p) > len(toks) {
		return false
	}
	for i := 0; i+len(p) <= len(toks); i++ {
		if slices.Equal(toks[i:i+len(p)], p) {
			return true
		}
	}
	return false
}
