// Package engine executes graph definitions against a session state.
//
// One step of a run is strictly sequential: the current node's handler is
// called with a snapshot of the state, its update is merged, and the next
// node is taken from the unconditional edge or resolved through the route by
// RouterEvaluator. The run ends when the next node is a terminal.
//
// A global step limit (DefaultStepLimit unless configured) stops graphs that
// cycle without a retry guard. Every run and every step is recorded as an
// OpenTelemetry span on the globally registered tracer provider.
package engine
