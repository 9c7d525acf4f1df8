// Package migrations embeds the catalog and lore schema.
package migrations

import "embed"

// FS holds the catalog migration files.
//
//go:embed *.sql
var FS embed.FS
