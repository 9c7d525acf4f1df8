package graph

import (
	"fmt"
	"slices"
)

// validate checks the structural rules of a definition whose node index,
// edge table and route table have already been populated.
func validate(d *Definition) []string {
	var errs []string
	known := func(name string) bool {
		_, ok := d.index[name]
		return ok
	}

	if d.start == "" {
		errs = append(errs, "no start node declared")
	} else if !known(d.start) {
		errs = append(errs, fmt.Sprintf("start node '%s' is not registered", d.start))
	} else if d.IsTerminal(d.start) {
		errs = append(errs, fmt.Sprintf("start node '%s' is a terminal", d.start))
	}

	var terminals []string
	for _, n := range d.nodes {
		if n.Terminal {
			terminals = append(terminals, n.Name)
		}
	}
	if len(terminals) == 0 {
		errs = append(errs, "no terminal node declared")
	}

	for _, from := range sortedKeys(d.edges) {
		to := d.edges[from]
		if !known(from) {
			errs = append(errs, fmt.Sprintf("edge '%s' -> '%s': source node is not registered", from, to))
		}
		if !known(to) {
			errs = append(errs, fmt.Sprintf("edge '%s' -> '%s': destination node is not registered", from, to))
		}
		if _, both := d.routes[from]; both {
			errs = append(errs, fmt.Sprintf("node '%s' has both an unconditional and a conditional edge", from))
		}
	}

	for _, from := range sortedKeys(d.routes) {
		r := d.routes[from]
		if !known(from) {
			errs = append(errs, fmt.Sprintf("route from '%s': source node is not registered", from))
		}
		if r.router == nil {
			errs = append(errs, fmt.Sprintf("route from '%s' has no router", from))
		}
		if len(r.labels) == 0 {
			errs = append(errs, fmt.Sprintf("route from '%s' has an empty label map", from))
		}
		for _, label := range r.Labels() {
			if to := r.labels[label]; !known(to) {
				errs = append(errs, fmt.Sprintf("route from '%s': label '%s' points to unregistered node '%s'", from, label, to))
			}
		}
		if r.guard != nil {
			errs = append(errs, validateGuard(from, r)...)
		}
	}

	for _, n := range d.nodes {
		_, hasEdge := d.edges[n.Name]
		_, hasRoute := d.routes[n.Name]
		switch {
		case n.Terminal && (hasEdge || hasRoute):
			errs = append(errs, fmt.Sprintf("terminal node '%s' has an outgoing edge", n.Name))
		case !n.Terminal && !hasEdge && !hasRoute:
			errs = append(errs, fmt.Sprintf("node '%s' is a dead end: no outgoing edge and not a terminal", n.Name))
		}
	}

	if known(d.start) && len(terminals) > 0 && !reachesTerminal(d) {
		errs = append(errs, fmt.Sprintf("no path from start node '%s' to any terminal", d.start))
	}
	return errs
}

func validateGuard(from string, r *Route) []string {
	var errs []string
	g := r.guard
	if g.Max < 1 {
		errs = append(errs, fmt.Sprintf("route from '%s': retry max must be at least 1, got %d", from, g.Max))
	}
	if len(g.Loop) == 0 {
		errs = append(errs, fmt.Sprintf("route from '%s': retry guard declares no loop label", from))
	}
	for _, l := range g.Loop {
		if _, ok := r.labels[l]; !ok {
			errs = append(errs, fmt.Sprintf("route from '%s': retry loop label '%s' is not in the label map", from, l))
		}
	}
	if _, ok := r.labels[g.Fallback]; !ok {
		errs = append(errs, fmt.Sprintf("route from '%s': retry fallback label '%s' is not in the label map", from, g.Fallback))
	}
	if slices.Contains(g.Loop, g.Fallback) {
		errs = append(errs, fmt.Sprintf("route from '%s': retry fallback label '%s' is also a loop label", from, g.Fallback))
	}
	return errs
}

// reachesTerminal walks every edge and route destination breadth first.
func reachesTerminal(d *Definition) bool {
	seen := map[string]bool{d.start: true}
	queue := []string{d.start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if d.IsTerminal(cur) {
			return true
		}
		var next []string
		if to, ok := d.edges[cur]; ok {
			next = append(next, to)
		}
		if r, ok := d.routes[cur]; ok {
			for _, l := range r.Labels() {
				next = append(next, r.labels[l])
			}
		}
		for _, n := range next {
			if _, ok := d.index[n]; ok && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
