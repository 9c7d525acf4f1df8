package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a file may contain.
type fileRoot struct {
	Graphs  []*graphBlock `hcl:"graph,block"`
	Races   []*raceBlock  `hcl:"race,block"`
	Classes []*classBlock `hcl:"class,block"`
	Lore    []*loreBlock  `hcl:"lore,block"`
	Remain  hcl.Body      `hcl:",remain"`
}

type graphBlock struct {
	Name      string        `hcl:"name,label"`
	Start     string        `hcl:"start"`
	Terminals []string      `hcl:"terminals"`
	Nodes     []*nodeBlock  `hcl:"node,block"`
	Edges     []*edgeBlock  `hcl:"edge,block"`
	Routes    []*routeBlock `hcl:"route,block"`
}

type nodeBlock struct {
	Name      string     `hcl:"name,label"`
	Handler   string     `hcl:"handler"`
	Commit    bool       `hcl:"commit,optional"`
	Reset     bool       `hcl:"reset,optional"`
	Arguments *argsBlock `hcl:"arguments,block"`
}

// argsBlock captures arbitrary attributes for later evaluation.
type argsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type edgeBlock struct {
	From string `hcl:"from,label"`
	To   string `hcl:"to"`
}

type routeBlock struct {
	From      string            `hcl:"from,label"`
	Router    string            `hcl:"router"`
	Labels    map[string]string `hcl:"labels"`
	Arguments *argsBlock        `hcl:"arguments,block"`
	Retry     *retryBlock       `hcl:"retry,block"`
}

type retryBlock struct {
	Max      int      `hcl:"max"`
	Loop     []string `hcl:"loop"`
	Fallback string   `hcl:"fallback"`
}

type raceBlock struct {
	Name         string `hcl:"name,label"`
	Description  string `hcl:"description,optional"`
	Strength     int    `hcl:"strength,optional"`
	Agility      int    `hcl:"agility,optional"`
	Mentality    int    `hcl:"mentality,optional"`
	Luck         int    `hcl:"luck,optional"`
	Intelligence int    `hcl:"intelligence,optional"`
	BaseHP       int    `hcl:"base_hp,optional"`
	LocationType string `hcl:"location_type"`
	Location     string `hcl:"location"`
}

type classBlock struct {
	Name         string `hcl:"name,label"`
	Description  string `hcl:"description,optional"`
	Strength     int    `hcl:"strength,optional"`
	Agility      int    `hcl:"agility,optional"`
	Mentality    int    `hcl:"mentality,optional"`
	Luck         int    `hcl:"luck,optional"`
	Intelligence int    `hcl:"intelligence,optional"`
	BaseHP       int    `hcl:"base_hp,optional"`
	AttackItem   string `hcl:"attack_item"`
	DefenseItem  string `hcl:"defense_item"`
}

type loreBlock struct {
	Kind  string `hcl:"kind,label"`
	Title string `hcl:"title,label"`
	Text  string `hcl:"text"`
}
