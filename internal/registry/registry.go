package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/talegrid/internal/graph"
)

// Module is the interface every handler module implements to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredHandler builds node handlers. NewInput is nil for handlers that
// take no arguments; otherwise it returns a pointer to a fresh input struct
// with defaults set, which Build receives after decoding. Handlers with
// Resets set always compile into reset steps.
type RegisteredHandler struct {
	NewInput func() any
	Build    func(input any) (graph.NodeHandler, error)
	Resets   bool
}

// RegisteredRouter builds routers, with the same input contract as handlers.
type RegisteredRouter struct {
	NewInput func() any
	Build    func(input any) (graph.Router, error)
}

// Registry holds the handlers and routers of one application instance.
type Registry struct {
	handlers map[string]*RegisteredHandler
	routers  map[string]*RegisteredRouter
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]*RegisteredHandler),
		routers:  make(map[string]*RegisteredRouter),
	}
}

// RegisterModules registers every module in order.
func (r *Registry) RegisterModules(mods ...Module) {
	for _, m := range mods {
		m.Register(r)
	}
}

// RegisterHandler registers a handler under name. Registering a name twice panics.
func (r *Registry) RegisterHandler(name string, h *RegisteredHandler) {
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering node handler.", "name", name)
	r.handlers[name] = h
}

// RegisterRouter registers a router under name. Registering a name twice panics.
func (r *Registry) RegisterRouter(name string, rt *RegisteredRouter) {
	if _, exists := r.routers[name]; exists {
		panic(fmt.Sprintf("router with name '%s' already registered", name))
	}
	slog.Debug("Registering router.", "name", name)
	r.routers[name] = rt
}

func (r *Registry) Handler(name string) (*RegisteredHandler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

func (r *Registry) Router(name string) (*RegisteredRouter, bool) {
	rt, ok := r.routers[name]
	return rt, ok
}

// HandlerNames returns the registered handler names, sorted.
func (r *Registry) HandlerNames() []string {
	return sortedNames(r.handlers)
}

// RouterNames returns the registered router names, sorted.
func (r *Registry) RouterNames() []string {
	return sortedNames(r.routers)
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
