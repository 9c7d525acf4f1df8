package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader reads game definitions from one or more paths and translates them
// into the format-agnostic model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter decodes raw node or router arguments into a handler's input
// struct. Fields are matched by their `cty` tag; fields without a matching
// argument keep the value they already have, so callers set defaults first.
type Converter interface {
	DecodeArguments(ctx context.Context, target any, args map[string]hcl.Expression) error
}
