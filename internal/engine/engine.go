package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/state"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultStepLimit bounds the number of node executions in a single run.
const DefaultStepLimit = 10000

const tracerName = "github.com/specialistvlad/talegrid/internal/engine"

// StepEvent describes one completed step of a run.
type StepEvent struct {
	Graph    string
	Node     string
	Step     int
	Update   state.Update
	Next     string
	Terminal bool
}

// Observer is notified after every step has been merged and routed.
type Observer interface {
	OnStep(ctx context.Context, ev StepEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev StepEvent)

// OnStep calls f(ctx, ev).
func (f ObserverFunc) OnStep(ctx context.Context, ev StepEvent) { f(ctx, ev) }

// Option configures an Engine.
type Option func(*Engine)

// WithStepLimit overrides DefaultStepLimit. Non-positive values are ignored.
func WithStepLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.stepLimit = n
		}
	}
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

type runConfig struct {
	observers []Observer
}

// WithObserver registers an observer for one run.
func WithObserver(o Observer) RunOption {
	return func(c *runConfig) { c.observers = append(c.observers, o) }
}

// Engine walks graph definitions. It holds no per-session data and can run
// many sessions concurrently.
type Engine struct {
	stepLimit int
	evaluator RouterEvaluator
	tracer    trace.Tracer
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		stepLimit: DefaultStepLimit,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StepLimit returns the configured runaway guard.
func (e *Engine) StepLimit() int { return e.stepLimit }

// Run executes def from its start node until a terminal node is reached and
// returns the final state. st is mutated in place; a nil st starts a fresh
// session. Handler and router failures abort the run as *NodeExecutionError,
// labels without a destination as *RouterError and runaway graphs as
// *ExecutionError.
func (e *Engine) Run(ctx context.Context, def *graph.Definition, st *state.SessionState, opts ...RunOption) (*state.SessionState, error) {
	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}
	if st == nil {
		st = state.New()
	}

	ctx, span := e.tracer.Start(ctx, "graph.run", trace.WithAttributes(attribute.String("graph", def.Name())))
	defer span.End()

	ctx = ctxlog.With(ctx, "graph", def.Name())
	logger := ctxlog.FromContext(ctx)
	logger.Info("🚀 Starting graph run.", "start", def.Start())

	current := def.Start()
	for step := 1; ; step++ {
		if step > e.stepLimit {
			err := &ExecutionError{Graph: def.Name(), Steps: step - 1, Reason: ReasonStepLimit}
			span.SetStatus(codes.Error, err.Error())
			return st, err
		}
		if err := ctx.Err(); err != nil {
			return st, fmt.Errorf("graph %q interrupted at node '%s': %w", def.Name(), current, err)
		}

		next, err := e.step(ctx, def, current, step, st, rc.observers)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Error("Graph run aborted.", "node", current, "step", step, "error", err)
			return st, err
		}
		if def.IsTerminal(next) {
			span.SetAttributes(attribute.Int("steps", step), attribute.String("terminal", next))
			logger.Info("🏁 Graph run finished.", "terminal", next, "steps", step)
			return st, nil
		}
		current = next
	}
}

// step runs one node, merges its update and resolves the next node.
func (e *Engine) step(ctx context.Context, def *graph.Definition, name string, step int, st *state.SessionState, observers []Observer) (string, error) {
	ctx, span := e.tracer.Start(ctx, "graph.node", trace.WithAttributes(
		attribute.String("node", name),
		attribute.Int("step", step),
	))
	defer span.End()
	logger := ctxlog.FromContext(ctx).With("node", name, "step", step)

	n, ok := def.Node(name)
	if !ok || n.Terminal {
		return "", &NodeExecutionError{Graph: def.Name(), Node: name, Err: fmt.Errorf("node is not executable")}
	}

	logger.Debug("Executing node.")
	upd, err := n.Handler.Execute(ctx, st.Clone())
	if err != nil {
		return "", &NodeExecutionError{Graph: def.Name(), Node: name, Err: err}
	}

	var mergeOpts []state.MergeOption
	if n.Commit {
		mergeOpts = append(mergeOpts, state.AllowCommit())
	}
	if n.Reset {
		mergeOpts = append(mergeOpts, state.AllowReset())
	}
	if err := state.Merge(st, upd, mergeOpts...); err != nil {
		return "", &NodeExecutionError{Graph: def.Name(), Node: name, Err: err}
	}

	var next string
	if to, ok := def.Edge(name); ok {
		next = to
	} else if route, ok := def.Route(name); ok {
		next, err = e.evaluator.Resolve(ctx, def, route, st)
		if err != nil {
			return "", err
		}
	} else {
		return "", &NodeExecutionError{Graph: def.Name(), Node: name, Err: fmt.Errorf("node has no outgoing edge")}
	}
	logger.Debug("Step complete.", "next", next)
	span.SetAttributes(attribute.String("next", next))

	ev := StepEvent{Graph: def.Name(), Node: name, Step: step, Update: upd, Next: next, Terminal: def.IsTerminal(next)}
	for _, o := range observers {
		o.OnStep(ctx, ev)
	}
	return next, nil
}
