package graph

import (
	"context"

	"github.com/specialistvlad/talegrid/internal/state"
)

// NodeHandler performs the work of one node. It receives a snapshot of the
// session state and returns the partial update the engine merges back.
type NodeHandler interface {
	Execute(ctx context.Context, st *state.SessionState) (state.Update, error)
}

// HandlerFunc adapts an ordinary function to NodeHandler.
type HandlerFunc func(ctx context.Context, st *state.SessionState) (state.Update, error)

// Execute calls f(ctx, st).
func (f HandlerFunc) Execute(ctx context.Context, st *state.SessionState) (state.Update, error) {
	return f(ctx, st)
}

// Router maps the current state to a label of its conditional edge. Routers
// may consult external classifiers but keep no state between calls.
type Router interface {
	Evaluate(ctx context.Context, st *state.SessionState) (string, error)
}

// RouterFunc adapts an ordinary function to Router.
type RouterFunc func(ctx context.Context, st *state.SessionState) (string, error)

// Evaluate calls f(ctx, st).
func (f RouterFunc) Evaluate(ctx context.Context, st *state.SessionState) (string, error) {
	return f(ctx, st)
}
