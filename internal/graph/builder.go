package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefinitionError is returned by Build when the declared graph is malformed.
// It lists every problem found, not only the first.
type DefinitionError struct {
	Graph    string
	Problems []string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("graph %q definition failed:\n- %s", e.Graph, strings.Join(e.Problems, "\n- "))
}

// NodeOption configures a node at registration.
type NodeOption func(*Node)

// Commit marks the node as a commit step: its updates may set race,
// profession and the initial character status.
func Commit() NodeOption {
	return func(n *Node) { n.Commit = true }
}

// Reset marks the node as a reset step: its updates may set QuestionTime
// back to zero.
func Reset() NodeOption {
	return func(n *Node) { n.Reset = true }
}

// RouteOption configures a conditional edge at registration.
type RouteOption func(*Route)

// WithRetryGuard attaches g to the route.
func WithRetryGuard(g RetryGuard) RouteOption {
	return func(r *Route) {
		guard := g
		guard.Loop = slices.Clone(g.Loop)
		r.guard = &guard
	}
}

type edgeDecl struct {
	from, to string
}

// Builder collects a declarative graph description. Calls can be chained;
// nothing is checked until Build.
type Builder struct {
	name   string
	start  string
	nodes  []Node
	edges  []edgeDecl
	routes []*Route
}

// NewBuilder starts a graph called name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddNode registers a processing node.
func (b *Builder) AddNode(name string, h NodeHandler, opts ...NodeOption) *Builder {
	n := Node{Name: name, Handler: h}
	for _, opt := range opts {
		opt(&n)
	}
	b.nodes = append(b.nodes, n)
	return b
}

// AddTerminal registers a terminal node. Reaching it ends the run.
func (b *Builder) AddTerminal(name string) *Builder {
	b.nodes = append(b.nodes, Node{Name: name, Terminal: true})
	return b
}

// AddEdge declares an unconditional transition.
func (b *Builder) AddEdge(from, to string) *Builder {
	b.edges = append(b.edges, edgeDecl{from: from, to: to})
	return b
}

// AddRoute declares a conditional transition resolved by r through labels.
func (b *Builder) AddRoute(from string, r Router, labels map[string]string, opts ...RouteOption) *Builder {
	route := &Route{from: from, router: r, labels: maps.Clone(labels)}
	for _, opt := range opts {
		opt(route)
	}
	b.routes = append(b.routes, route)
	return b
}

// SetStart declares the entry node.
func (b *Builder) SetStart(name string) *Builder {
	b.start = name
	return b
}

// Build validates the declaration and returns the immutable definition.
func (b *Builder) Build() (*Definition, error) {
	d := &Definition{
		name:   b.name,
		start:  b.start,
		nodes:  slices.Clone(b.nodes),
		index:  make(map[string]int, len(b.nodes)),
		edges:  make(map[string]string, len(b.edges)),
		routes: make(map[string]*Route, len(b.routes)),
	}

	var problems []string
	for i, n := range d.nodes {
		if n.Name == "" {
			problems = append(problems, fmt.Sprintf("node #%d has an empty name", i))
			continue
		}
		if _, dup := d.index[n.Name]; dup {
			problems = append(problems, fmt.Sprintf("node '%s' is registered more than once", n.Name))
			continue
		}
		if !n.Terminal && n.Handler == nil {
			problems = append(problems, fmt.Sprintf("node '%s' has no handler", n.Name))
		}
		d.index[n.Name] = i
	}

	for _, e := range b.edges {
		if _, dup := d.edges[e.from]; dup {
			problems = append(problems, fmt.Sprintf("node '%s' has more than one unconditional edge", e.from))
			continue
		}
		d.edges[e.from] = e.to
	}
	for _, r := range b.routes {
		if _, dup := d.routes[r.from]; dup {
			problems = append(problems, fmt.Sprintf("node '%s' has more than one conditional edge", r.from))
			continue
		}
		d.routes[r.from] = r
	}

	problems = append(problems, validate(d)...)
	if len(problems) > 0 {
		return nil, &DefinitionError{Graph: b.name, Problems: problems}
	}
	return d, nil
}
