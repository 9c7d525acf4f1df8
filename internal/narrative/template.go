package narrative

import (
	"context"
	"fmt"
	"strings"
	"text/template"
)

// defaultTemplates cover every topic the built-in grids use. Unknown topics
// fall back to the instruction followed by the facts.
var defaultTemplates = map[string]string{
	"introduction": `Welcome, adventurer, to a land of old roads and older secrets. {{.Instruction}}{{facts .Facts}}`,
	"rules":        `Here is how our tale works: you speak, and the world answers. Each choice you make shapes your character. {{.Instruction}}{{facts .Facts}}`,
	"choose_race":  `Every hero is born of a people. Which race will you be?{{facts .Facts}}`,
	"choose_class": `Now choose the path you walk. Which class calls to you?{{facts .Facts}}`,
	"request_name": `{{if .Character.Race}}A {{.Character.Race}} {{.Character.Profession}} stands before me. {{end}}What is your name?`,
	"describe_village": `You look around {{with .Character.Location}}{{.}}{{else}}the village{{end}}.{{facts .Facts}}`,
	"basic_question":   `You stand in {{with .Character.Location}}{{.}}{{else}}the village square{{end}}. What do you do?`,
	"dive_into_game":   `{{.Character.Name}} the {{.Character.Race}} {{.Character.Profession}} sets out from {{.Character.Location}}, carrying {{.Character.AttackItem}} and {{.Character.DefenseItem}}. Your story begins.`,
}

// Template is an offline Generator rendering text/template snippets per topic.
// It never fails for known topics and is used when no language model is configured.
type Template struct {
	templates map[string]*template.Template
}

// NewTemplate compiles the default templates plus overrides keyed by topic.
func NewTemplate(overrides map[string]string) (*Template, error) {
	src := make(map[string]string, len(defaultTemplates)+len(overrides))
	for k, v := range defaultTemplates {
		src[k] = v
	}
	for k, v := range overrides {
		src[k] = v
	}

	funcs := template.FuncMap{"facts": joinFacts}
	t := &Template{templates: make(map[string]*template.Template, len(src))}
	for topic, text := range src {
		tpl, err := template.New(topic).Funcs(funcs).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse narration template '%s': %w", topic, err)
		}
		t.templates[topic] = tpl
	}
	return t, nil
}

func (t *Template) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ServiceError{Service: "template", Topic: p.Topic, Err: err}
	}
	tpl, ok := t.templates[p.Topic]
	if !ok {
		return strings.TrimSpace(p.Instruction + joinFacts(p.Facts)), nil
	}
	var b strings.Builder
	if err := tpl.Execute(&b, p); err != nil {
		return "", &ServiceError{Service: "template", Topic: p.Topic, Err: err}
	}
	return strings.TrimSpace(b.String()), nil
}

func joinFacts(facts []string) string {
	if len(facts) == 0 {
		return ""
	}
	return "\n- " + strings.Join(facts, "\n- ")
}
