// Package charcreation implements the character creation act: choosing a race
// and a class from the catalog, naming the character and finalising its
// location, status and starting items.
package charcreation

import (
	"github.com/specialistvlad/talegrid/internal/adventure"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/registry"
)

// Labels returned by the routers of this package.
const (
	LabelExit     = "exit"
	LabelAgain    = "again"
	LabelInfo     = "info"
	LabelFallback = "fallback"
)

// DefaultName is given to players who cannot settle on a valid name.
const DefaultName = "Nameless Wanderer"

// Module implements the registry.Module interface for this package.
type Module struct {
	Services *adventure.Services
}

// KindInput defines the arguments for handlers working on one half of the catalog.
type KindInput struct {
	Kind string `cty:"kind"`
}

// NameInput defines the arguments for the default_name handler.
type NameInput struct {
	Name string `cty:"name"`
}

func kindHandler(build func(k adventure.Kind) graph.NodeHandler) *registry.RegisteredHandler {
	return registry.Handler(func(in *KindInput) (graph.NodeHandler, error) {
		k, err := adventure.ParseKind(in.Kind)
		if err != nil {
			return nil, err
		}
		return build(k), nil
	})
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("present_options", kindHandler(m.presentOptions))
	r.RegisterHandler("analyze_choice", kindHandler(m.analyzeChoice))
	r.RegisterHandler("answer_option_question", kindHandler(m.answerOptionQuestion))
	r.RegisterHandler("commit_choice", kindHandler(m.commitChoice))
	r.RegisterHandler("auto_choice", kindHandler(m.autoChoice))
	r.RegisterRouter("choice_outcome", registry.Router(func(in *KindInput) (graph.Router, error) {
		k, err := adventure.ParseKind(in.Kind)
		if err != nil {
			return nil, err
		}
		return m.choiceOutcome(k), nil
	}))

	r.RegisterHandler("request_name", registry.StaticHandler(graph.HandlerFunc(m.RequestName)))
	r.RegisterHandler("validate_name", registry.StaticHandler(graph.HandlerFunc(m.ValidateName)))
	r.RegisterHandler("explain_invalid_name", registry.StaticHandler(graph.HandlerFunc(m.ExplainInvalidName)))
	r.RegisterHandler("commit_name", registry.StaticHandler(graph.HandlerFunc(m.CommitName)))
	r.RegisterHandler("default_name", registry.HandlerWithDefaults(
		func() *NameInput { return &NameInput{Name: DefaultName} },
		m.newDefaultName,
	))
	r.RegisterRouter("name_outcome", registry.StaticRouter(graph.RouterFunc(NameOutcome)))

	r.RegisterHandler("starting_location", registry.StaticHandler(graph.HandlerFunc(m.StartingLocation)))
	r.RegisterHandler("initial_status_items", registry.StaticHandler(graph.HandlerFunc(m.InitialStatusItems)))
	r.RegisterHandler("dive_into_game", registry.StaticHandler(graph.HandlerFunc(m.DiveIntoGame)))
}
