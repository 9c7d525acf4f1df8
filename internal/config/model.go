package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/talegrid/internal/catalog"
	"github.com/specialistvlad/talegrid/internal/lore"
)

// Model is everything a set of definition files declares.
type Model struct {
	Graphs  []*Graph
	Catalog catalog.Seed
	Lore    []lore.Passage
}

// Graph finds a graph by name.
func (m *Model) Graph(name string) (*Graph, bool) {
	for _, g := range m.Graphs {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// Graph is the format-agnostic representation of a `graph` block.
type Graph struct {
	Name      string
	Source    string
	Start     string
	Terminals []string
	Nodes     []*Node
	Edges     []*Edge
	Routes    []*Route
}

// Node binds a node name to a registered handler.
type Node struct {
	Name      string
	Handler   string
	Commit    bool
	Reset     bool
	Arguments map[string]hcl.Expression
}

// Edge is an unconditional transition.
type Edge struct {
	From string
	To   string
}

// Route is a conditional transition driven by a registered router.
type Route struct {
	From      string
	Router    string
	Arguments map[string]hcl.Expression
	Labels    map[string]string
	Retry     *Retry
}

// Retry is the retry guard attached to a route.
type Retry struct {
	Max      int
	Loop     []string
	Fallback string
}
