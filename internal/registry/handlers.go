package registry

import "github.com/specialistvlad/talegrid/internal/graph"

// Handler registers a handler whose arguments decode into In.
func Handler[In any](build func(in *In) (graph.NodeHandler, error)) *RegisteredHandler {
	return &RegisteredHandler{
		NewInput: func() any { return new(In) },
		Build:    func(in any) (graph.NodeHandler, error) { return build(in.(*In)) },
	}
}

// HandlerWithDefaults is Handler with a constructor for the input defaults.
func HandlerWithDefaults[In any](defaults func() *In, build func(in *In) (graph.NodeHandler, error)) *RegisteredHandler {
	return &RegisteredHandler{
		NewInput: func() any { return defaults() },
		Build:    func(in any) (graph.NodeHandler, error) { return build(in.(*In)) },
	}
}

// StaticHandler registers a handler without arguments.
func StaticHandler(h graph.NodeHandler) *RegisteredHandler {
	return &RegisteredHandler{Build: func(any) (graph.NodeHandler, error) { return h, nil }}
}

// Router registers a router whose arguments decode into In.
func Router[In any](build func(in *In) (graph.Router, error)) *RegisteredRouter {
	return &RegisteredRouter{
		NewInput: func() any { return new(In) },
		Build:    func(in any) (graph.Router, error) { return build(in.(*In)) },
	}
}

// StaticRouter registers a router without arguments.
func StaticRouter(rt graph.Router) *RegisteredRouter {
	return &RegisteredRouter{Build: func(any) (graph.Router, error) { return rt, nil }}
}
