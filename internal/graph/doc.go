// Package graph defines the immutable execution graph a session walks.
//
// # Model
//
// A Definition is an arena of named nodes plus two transition tables keyed by
// source node:
//
//   - **Edges** are unconditional: after the node runs, the session moves on.
//   - **Routes** are conditional: a Router picks a label and the label map
//     turns it into the next node. A route may carry a RetryGuard.
//
// Terminal nodes have no handler. Reaching one ends the run; the engine never
// executes them.
//
// # Construction
//
// Graphs are assembled with a Builder and validated once by Build. A
// DefinitionError lists every problem, including:
//
//   - an edge or label pointing at an unregistered node
//   - a node with both an unconditional and a conditional edge
//   - a non-terminal node without any outgoing edge
//   - no path from the start node to a terminal
//   - a retry guard whose loop or fallback label is not in its label map
//
// After Build nothing can add or remove nodes, so a dangling transition can
// never be discovered at runtime.
//
// # Retry guards
//
// A RetryGuard counts how many times a route took one of its loop labels in a
// row. When the count reaches Max the fallback label is forced and the count
// resets. Counters are stored through the Counters interface, which the
// session state implements, so concurrent sessions never share them.
package graph
