// Package config defines the format-agnostic model of a game definition: the
// graphs to run and the catalog to seed. It also holds the interfaces a
// concrete format (HCL today) implements to produce that model and to decode
// node arguments into the Go structs handlers declare.
//
// The model keeps argument values as unevaluated hcl.Expression values. They
// are evaluated only when the registry builds a handler, so every argument
// error is reported against the node that owns it.
package config
