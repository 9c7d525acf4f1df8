// Package registry is the glue between grid files and Go code.
//
// Modules register node handlers and routers under the string names grid files
// refer to (e.g. handler = "present_topic"). At startup the registry checks
// that every name a grid uses is registered, decodes each node's arguments
// into the input struct its handler declares, and compiles the result into
// immutable graph definitions. Any mismatch is reported before a single
// session starts.
package registry
