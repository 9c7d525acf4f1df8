package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/talegrid/internal/config"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/graph"
)

// CompileAll validates the model and compiles every graph in it, keyed by name.
func (r *Registry) CompileAll(ctx context.Context, model *config.Model, conv config.Converter) (map[string]*graph.Definition, error) {
	if err := r.Validate(ctx, model); err != nil {
		return nil, err
	}
	out := make(map[string]*graph.Definition, len(model.Graphs))
	for _, g := range model.Graphs {
		def, err := r.Compile(ctx, g, conv)
		if err != nil {
			return nil, err
		}
		out[g.Name] = def
	}
	return out, nil
}

// Compile builds the handlers and routers of g and assembles them into a
// validated graph definition. Argument errors are collected across all nodes
// before failing; structural problems come back as *graph.DefinitionError.
func (r *Registry) Compile(ctx context.Context, g *config.Graph, conv config.Converter) (*graph.Definition, error) {
	logger := ctxlog.FromContext(ctx).With("graph", g.Name)
	b := graph.NewBuilder(g.Name)
	var errs []string

	for _, n := range g.Nodes {
		reg, ok := r.handlers[n.Handler]
		if !ok {
			errs = append(errs, fmt.Sprintf("node '%s': unknown handler '%s'", n.Name, n.Handler))
			continue
		}
		input, err := decodeInput(ctx, conv, reg.NewInput, n.Arguments)
		if err != nil {
			errs = append(errs, fmt.Sprintf("node '%s' (%s): %v", n.Name, n.Handler, err))
			continue
		}
		h, err := reg.Build(input)
		if err != nil {
			errs = append(errs, fmt.Sprintf("node '%s' (%s): %v", n.Name, n.Handler, err))
			continue
		}
		var opts []graph.NodeOption
		if n.Commit {
			opts = append(opts, graph.Commit())
		}
		if n.Reset || reg.Resets {
			opts = append(opts, graph.Reset())
		}
		b.AddNode(n.Name, h, opts...)
	}

	for _, t := range g.Terminals {
		b.AddTerminal(t)
	}
	for _, e := range g.Edges {
		b.AddEdge(e.From, e.To)
	}

	for _, rt := range g.Routes {
		reg, ok := r.routers[rt.Router]
		if !ok {
			errs = append(errs, fmt.Sprintf("route from '%s': unknown router '%s'", rt.From, rt.Router))
			continue
		}
		input, err := decodeInput(ctx, conv, reg.NewInput, rt.Arguments)
		if err != nil {
			errs = append(errs, fmt.Sprintf("route from '%s' (%s): %v", rt.From, rt.Router, err))
			continue
		}
		router, err := reg.Build(input)
		if err != nil {
			errs = append(errs, fmt.Sprintf("route from '%s' (%s): %v", rt.From, rt.Router, err))
			continue
		}
		var opts []graph.RouteOption
		if rt.Retry != nil {
			opts = append(opts, graph.WithRetryGuard(graph.RetryGuard{
				Max:      rt.Retry.Max,
				Loop:     rt.Retry.Loop,
				Fallback: rt.Retry.Fallback,
			}))
		}
		b.AddRoute(rt.From, router, rt.Labels, opts...)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("graph '%s' compilation failed:\n- %s", g.Name, strings.Join(errs, "\n- "))
	}

	b.SetStart(g.Start)
	def, err := b.Build()
	if err != nil {
		return nil, err
	}
	logger.Debug("Graph compiled.", "nodes", len(g.Nodes), "routes", len(g.Routes))
	return def, nil
}

func decodeInput(ctx context.Context, conv config.Converter, newInput func() any, args map[string]hcl.Expression) (any, error) {
	if newInput == nil {
		if len(args) > 0 {
			return nil, fmt.Errorf("handler takes no arguments")
		}
		return nil, nil
	}
	input := newInput()
	if len(args) == 0 {
		return input, nil
	}
	if err := conv.DecodeArguments(ctx, input, args); err != nil {
		return nil, err
	}
	return input, nil
}
