package intent

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

// Rule maps any of Words (single words or phrases) to Label.
type Rule struct {
	Label string
	Words []string
}

// Rules are checked in order; the first rule with a matching word wins.
var defaultRules = map[string][]Rule{
	YesNo.Name: {
		{Label: Negative, Words: []string{"no", "n", "nope", "nah", "stop", "enough", "done", "exit", "quit", "nothing", "never mind"}},
		{Label: Positive, Words: []string{"yes", "y", "yeah", "yep", "sure", "ok", "okay", "more", "continue", "again", "another", "please"}},
	},
	Village.Name: {
		{Label: GoToDungeon, Words: []string{"dungeon", "descend", "delve", "crypt", "go down", "leave the village", "set out"}},
		{Label: Talking, Words: []string{"talk", "speak", "chat", "greet", "ask", "villager", "villagers", "innkeeper", "npc", "merchant"}},
		{Label: LookAround, Words: []string{"look", "look around", "explore", "observe", "examine", "describe", "wander", "see", "search"}},
	},
}

var infoWords = []string{"what", "which", "tell", "about", "describe", "explain", "difference", "info", "information", "how", "why", "compare"}

var namePrefixes = []string{"my name is", "my name's", "name is", "call me", "i am", "i'm", "it's", "it is"}

var namePattern = regexp.MustCompile(`^\p{L}[\p{L} '\-]*\p{L}$`)

const (
	minNameLen = 2
	maxNameLen = 24
)

// Keyword is an offline classifier based on whole-word keyword lists. It
// implements Classifier, ChoiceAnalyzer and NameValidator.
type Keyword struct {
	rules map[string][]Rule
}

var (
	_ Classifier     = (*Keyword)(nil)
	_ ChoiceAnalyzer = (*Keyword)(nil)
	_ NameValidator  = (*Keyword)(nil)
)

// NewKeyword returns a classifier with the built-in yes/no and village rules.
func NewKeyword() *Keyword {
	k := &Keyword{rules: make(map[string][]Rule, len(defaultRules))}
	for name, rules := range defaultRules {
		k.rules[name] = rules
	}
	return k
}

// WithRules replaces the rules used for the label set named set.
func (k *Keyword) WithRules(set string, rules ...Rule) *Keyword {
	k.rules[set] = rules
	return k
}

func (k *Keyword) Classify(ctx context.Context, utterance string, set LabelSet) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	toks := words(utterance)
	for _, r := range k.rules[set.Name] {
		for _, w := range r.Words {
			if containsPhrase(toks, w) {
				return set.Normalize(r.Label), nil
			}
		}
	}
	return set.Default, nil
}

// AnalyzeChoice matches option names as whole words. A question mark or an
// info word marks the reply as a question about the options. A single unknown
// word is reported as chosen so the caller can reject it against its catalog.
func (k *Keyword) AnalyzeChoice(ctx context.Context, utterance string, options []string) (Choice, error) {
	if err := ctx.Err(); err != nil {
		return Choice{}, err
	}
	toks := words(utterance)
	info := strings.Contains(utterance, "?")
	for _, w := range infoWords {
		if containsPhrase(toks, w) {
			info = true
			break
		}
	}

	for _, o := range options {
		if containsPhrase(toks, o) {
			return Choice{Choice: o, Chosen: !info, InfoRequest: info}, nil
		}
	}
	if info {
		return Choice{InfoRequest: true}, nil
	}
	if len(toks) == 1 {
		return Choice{Choice: titleCase(toks[0]), Chosen: true}, nil
	}
	return Choice{}, nil
}

func (k *Keyword) ValidateName(ctx context.Context, utterance string) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}
	name := strings.TrimSpace(utterance)
	lower := strings.ToLower(name)
	for _, p := range namePrefixes {
		if strings.HasPrefix(lower, p+" ") {
			name = strings.TrimSpace(name[len(p):])
			break
		}
	}
	name = strings.TrimRightFunc(name, func(r rune) bool { return unicode.IsPunct(r) && r != '\'' })
	name = strings.Join(strings.Fields(name), " ")

	switch n := len([]rune(name)); {
	case n == 0:
		return Verdict{Reason: "no name was given"}, nil
	case n < minNameLen:
		return Verdict{Name: name, Reason: "the name is too short"}, nil
	case n > maxNameLen:
		return Verdict{Name: name, Reason: "the name is longer than 24 characters"}, nil
	case !namePattern.MatchString(name):
		return Verdict{Name: name, Reason: "a name may only contain letters, spaces, apostrophes and hyphens"}, nil
	}
	return Verdict{Valid: true, Name: titleCase(name)}, nil
}

func titleCase(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}
