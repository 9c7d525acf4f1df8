package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/talegrid/internal/catalog"
	"github.com/specialistvlad/talegrid/internal/config"
	"github.com/specialistvlad/talegrid/internal/lore"
)

func translateGraph(g *graphBlock, source string) (*config.Graph, hcl.Diagnostics) {
	out := &config.Graph{
		Name:      g.Name,
		Source:    source,
		Start:     g.Start,
		Terminals: g.Terminals,
	}
	var diags hcl.Diagnostics
	for _, n := range g.Nodes {
		args, d := attributes(n.Arguments)
		diags = append(diags, d...)
		out.Nodes = append(out.Nodes, &config.Node{
			Name:      n.Name,
			Handler:   n.Handler,
			Commit:    n.Commit,
			Reset:     n.Reset,
			Arguments: args,
		})
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, &config.Edge{From: e.From, To: e.To})
	}
	for _, r := range g.Routes {
		args, d := attributes(r.Arguments)
		diags = append(diags, d...)
		route := &config.Route{
			From:      r.From,
			Router:    r.Router,
			Arguments: args,
			Labels:    r.Labels,
		}
		if r.Retry != nil {
			route.Retry = &config.Retry{Max: r.Retry.Max, Loop: r.Retry.Loop, Fallback: r.Retry.Fallback}
		}
		out.Routes = append(out.Routes, route)
	}
	return out, diags
}

func translateRace(r *raceBlock) catalog.RaceRecord {
	return catalog.RaceRecord{
		Entry: catalog.Entry{Name: r.Name, Description: r.Description},
		Stats: catalog.Stats{
			Strength:     r.Strength,
			Agility:      r.Agility,
			Mentality:    r.Mentality,
			Luck:         r.Luck,
			Intelligence: r.Intelligence,
			BaseHP:       r.BaseHP,
		},
		Location: catalog.Location{Type: r.LocationType, Name: r.Location},
	}
}

func translateClass(c *classBlock) catalog.ClassRecord {
	return catalog.ClassRecord{
		Entry: catalog.Entry{Name: c.Name, Description: c.Description},
		Stats: catalog.Stats{
			Strength:     c.Strength,
			Agility:      c.Agility,
			Mentality:    c.Mentality,
			Luck:         c.Luck,
			Intelligence: c.Intelligence,
			BaseHP:       c.BaseHP,
		},
		Items: catalog.Items{Attack: c.AttackItem, Defense: c.DefenseItem},
	}
}

func translateLore(b *loreBlock, file string) (lore.Passage, error) {
	kind, err := lore.ParseKind(b.Kind)
	if err != nil {
		return lore.Passage{}, fmt.Errorf("lore '%s' in %s: %w", b.Title, file, err)
	}
	return lore.Passage{Kind: kind, Title: b.Title, Text: b.Text}, nil
}
