package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/state"
)

// RouterEvaluator turns a conditional edge into the next node name.
type RouterEvaluator struct{}

// Resolve runs the route's router on a snapshot of st, lets the retry guard
// substitute the fallback label when the loop budget is spent, and looks the
// label up in the route's label map. Retry counters are kept on st.
func (RouterEvaluator) Resolve(ctx context.Context, def *graph.Definition, route *graph.Route, st *state.SessionState) (string, error) {
	logger := ctxlog.FromContext(ctx).With("node", route.From())

	label, err := route.Router().Evaluate(ctx, st.Clone())
	if err != nil {
		return "", &NodeExecutionError{Graph: def.Name(), Node: route.From(), Err: fmt.Errorf("router failed: %w", err)}
	}
	logger.Debug("Router produced label.", "label", label)

	if g := route.Guard(); g != nil {
		key := def.CounterKey(route.From())
		if g.ShouldForceFallback(st, key, label) {
			logger.Info("🔁 Retry limit reached, forcing fallback.", "label", label, "fallback", g.Fallback, "max", g.Max)
			label = g.Fallback
		}
	}

	next, ok := route.Destination(label)
	if !ok {
		return "", &RouterError{Graph: def.Name(), Node: route.From(), Label: label}
	}
	return next, nil
}
