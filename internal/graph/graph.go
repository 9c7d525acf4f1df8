package graph

import (
	"slices"
)

// Node is a registered processing step. Terminal nodes carry no handler.
type Node struct {
	Name     string
	Handler  NodeHandler
	Commit   bool
	Reset    bool
	Terminal bool
}

// Route is a conditional edge: a router plus the label map it resolves into.
type Route struct {
	from   string
	router Router
	labels map[string]string
	guard  *RetryGuard
}

// From returns the node the route leaves.
func (r *Route) From() string { return r.from }

// Router returns the function that picks a label.
func (r *Route) Router() Router { return r.router }

// Guard returns the retry guard of the route, or nil.
func (r *Route) Guard() *RetryGuard {
	if r.guard == nil {
		return nil
	}
	g := *r.guard
	return &g
}

// Destination returns the node mapped to label.
func (r *Route) Destination(label string) (string, bool) {
	to, ok := r.labels[label]
	return to, ok
}

// Labels returns the sorted label names of the route.
func (r *Route) Labels() []string {
	out := make([]string, 0, len(r.labels))
	for l := range r.labels {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Definition is an immutable, validated graph. Nodes live in an arena indexed
// by name; edges and routes are keyed by their source node.
type Definition struct {
	name   string
	start  string
	nodes  []Node
	index  map[string]int
	edges  map[string]string
	routes map[string]*Route
}

// Name returns the graph name.
func (d *Definition) Name() string { return d.name }

// Start returns the name of the first node to execute.
func (d *Definition) Start() string { return d.start }

// Node looks up a node by name.
func (d *Definition) Node(name string) (Node, bool) {
	i, ok := d.index[name]
	if !ok {
		return Node{}, false
	}
	return d.nodes[i], true
}

// Nodes returns the node names in registration order.
func (d *Definition) Nodes() []string {
	out := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = n.Name
	}
	return out
}

// IsTerminal reports whether name is a declared terminal node.
func (d *Definition) IsTerminal(name string) bool {
	n, ok := d.Node(name)
	return ok && n.Terminal
}

// Edge returns the unconditional successor of from.
func (d *Definition) Edge(from string) (string, bool) {
	to, ok := d.edges[from]
	return to, ok
}

// Route returns the conditional edge leaving from.
func (d *Definition) Route(from string) (*Route, bool) {
	r, ok := d.routes[from]
	return r, ok
}

// CounterKey returns the retry counter key for the route leaving from.
// Keys are scoped by graph so one state can flow through several graphs.
func (d *Definition) CounterKey(from string) string {
	return d.name + "/" + from
}
