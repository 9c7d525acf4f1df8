// Package grids embeds the built-in game definitions.
package grids

import "embed"

// FS holds the built-in graphs, the sample catalog and the lore library.
//
//go:embed *.hcl
var FS embed.FS

// Names of the built-in graphs, in the order a session plays them.
const (
	CharacterCreation = "character_creation"
	Village           = "village"
)
