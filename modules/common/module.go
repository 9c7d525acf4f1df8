// Package common provides the handlers every game graph shares: waiting for
// player input and resetting the question counter between phases.
package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/input"
	"github.com/specialistvlad/talegrid/internal/registry"
	"github.com/specialistvlad/talegrid/internal/state"
)

// ErrNoInputSource is returned when a session runs without an input source in
// its context.
var ErrNoInputSource = errors.New("no input source in context")

// Module implements the registry.Module interface for this package.
type Module struct{}

// ResetInput defines the arguments for the reset_question_time handler.
type ResetInput struct {
	// Phase optionally moves the session into a new game phase.
	Phase string `cty:"phase"`
}

// AwaitInput blocks until the player says something and records it.
func AwaitInput(ctx context.Context, _ *state.SessionState) (state.Update, error) {
	src, ok := input.FromContext(ctx)
	if !ok {
		return state.Update{}, ErrNoInputSource
	}
	line, err := src.Next(ctx)
	if err != nil {
		return state.Update{}, err
	}
	ctxlog.FromContext(ctx).Debug("Player input received.", "length", len(line))
	return state.Update{UserMessages: []string{line}}, nil
}

// NewReset builds a handler that sets QuestionTime back to zero.
func NewReset(in *ResetInput) (graph.NodeHandler, error) {
	var phase *state.GamePhase
	if in.Phase != "" {
		p, err := state.ParsePhase(in.Phase)
		if err != nil {
			return nil, fmt.Errorf("invalid phase argument: %w", err)
		}
		phase = &p
	}
	return graph.HandlerFunc(func(context.Context, *state.SessionState) (state.Update, error) {
		return state.Update{QuestionTime: state.Ptr(0), Phase: phase}, nil
	}), nil
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("await_input", registry.StaticHandler(graph.HandlerFunc(AwaitInput)))
	reset := registry.Handler(NewReset)
	reset.Resets = true
	r.RegisterHandler("reset_question_time", reset)
}
