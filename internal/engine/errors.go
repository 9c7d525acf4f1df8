package engine

import "fmt"

// NodeExecutionError wraps a failure raised while running a node, including
// a merge rejected by a state invariant. It aborts the run.
type NodeExecutionError struct {
	Graph string
	Node  string
	Err   error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("graph %q: node '%s' failed: %v", e.Graph, e.Node, e.Err)
}

func (e *NodeExecutionError) Unwrap() error { return e.Err }

// RouterError reports a label that has no destination in the route's label
// map. It is always a graph authoring defect. A router that fails outright is
// reported as a *NodeExecutionError of the node the route leaves.
type RouterError struct {
	Graph string
	Node  string
	Label string
}

func (e *RouterError) Error() string {
	return fmt.Sprintf("graph %q: node '%s' routed to label '%s' which has no destination", e.Graph, e.Node, e.Label)
}

// ExecutionError reports a run that was stopped by the engine itself.
type ExecutionError struct {
	Graph  string
	Steps  int
	Reason string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("graph %q: %s after %d steps", e.Graph, e.Reason, e.Steps)
}

// ReasonStepLimit is the ExecutionError reason for runaway graphs.
const ReasonStepLimit = "step limit exceeded"
