package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/talegrid/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noop = HandlerFunc(func(context.Context, *state.SessionState) (state.Update, error) {
	return state.Update{}, nil
})

var constRouter = RouterFunc(func(context.Context, *state.SessionState) (string, error) {
	return "exit", nil
})

// loopBuilder returns a valid present -> input -> (again|exit) graph.
func loopBuilder() *Builder {
	return NewBuilder("loop").
		AddNode("present", noop).
		AddNode("input", noop).
		AddNode("reset", noop).
		AddTerminal("done").
		SetStart("present").
		AddEdge("present", "input").
		AddRoute("input", constRouter, map[string]string{"again": "present", "exit": "reset"},
			WithRetryGuard(RetryGuard{Max: 3, Loop: []string{"again"}, Fallback: "exit"})).
		AddEdge("reset", "done")
}

func requireProblems(t *testing.T, err error) []string {
	t.Helper()
	var defErr *DefinitionError
	require.True(t, errors.As(err, &defErr), "expected a *DefinitionError, got %v", err)
	return defErr.Problems
}

func TestBuild_Valid(t *testing.T) {
	def, err := loopBuilder().Build()
	require.NoError(t, err)

	assert.Equal(t, "loop", def.Name())
	assert.Equal(t, "present", def.Start())
	assert.Equal(t, []string{"present", "input", "reset", "done"}, def.Nodes())
	assert.True(t, def.IsTerminal("done"))
	assert.False(t, def.IsTerminal("present"))

	to, ok := def.Edge("present")
	require.True(t, ok)
	assert.Equal(t, "input", to)

	r, ok := def.Route("input")
	require.True(t, ok)
	assert.Equal(t, []string{"again", "exit"}, r.Labels())
	dest, ok := r.Destination("again")
	require.True(t, ok)
	assert.Equal(t, "present", dest)
	require.NotNil(t, r.Guard())
	assert.Equal(t, 3, r.Guard().Max)
	assert.Equal(t, "loop/input", def.CounterKey("input"))
}

func TestBuild_CommitOption(t *testing.T) {
	def, err := NewBuilder("g").
		AddNode("commit", noop, Commit()).
		AddTerminal("end").
		SetStart("commit").
		AddEdge("commit", "end").
		Build()
	require.NoError(t, err)

	n, ok := def.Node("commit")
	require.True(t, ok)
	assert.True(t, n.Commit)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() *Builder
		want    string
	}{
		{
			name: "edge to unregistered node",
			builder: func() *Builder {
				return loopBuilder().AddNode("orphan", noop).AddEdge("orphan", "missing")
			},
			want: "edge 'orphan' -> 'missing': destination node is not registered",
		},
		{
			name: "label to unregistered node",
			builder: func() *Builder {
				return NewBuilder("loop").
					AddNode("a", noop).AddTerminal("end").SetStart("a").
					AddRoute("a", constRouter, map[string]string{"exit": "end", "again": "introdution"})
			},
			want: "route from 'a': label 'again' points to unregistered node 'introdution'",
		},
		{
			name: "ambiguous outgoing edges",
			builder: func() *Builder {
				return loopBuilder().AddEdge("input", "reset")
			},
			want: "node 'input' has both an unconditional and a conditional edge",
		},
		{
			name: "no path to a terminal",
			builder: func() *Builder {
				return NewBuilder("loop").
					AddNode("a", noop).AddNode("b", noop).AddTerminal("end").SetStart("a").
					AddEdge("a", "b").AddEdge("b", "a")
			},
			want: "no path from start node 'a' to any terminal",
		},
		{
			name: "dead end",
			builder: func() *Builder {
				return loopBuilder().AddNode("stuck", noop)
			},
			want: "node 'stuck' is a dead end: no outgoing edge and not a terminal",
		},
		{
			name: "duplicate node",
			builder: func() *Builder {
				return loopBuilder().AddNode("present", noop)
			},
			want: "node 'present' is registered more than once",
		},
		{
			name: "unregistered start",
			builder: func() *Builder {
				return loopBuilder().SetStart("nowhere")
			},
			want: "start node 'nowhere' is not registered",
		},
		{
			name: "guard fallback outside label map",
			builder: func() *Builder {
				return NewBuilder("loop").
					AddNode("a", noop).AddTerminal("end").SetStart("a").
					AddRoute("a", constRouter, map[string]string{"exit": "end", "again": "a"},
						WithRetryGuard(RetryGuard{Max: 3, Loop: []string{"again"}, Fallback: "bail"}))
			},
			want: "route from 'a': retry fallback label 'bail' is not in the label map",
		},
		{
			name: "guard max below one",
			builder: func() *Builder {
				return NewBuilder("loop").
					AddNode("a", noop).AddTerminal("end").SetStart("a").
					AddRoute("a", constRouter, map[string]string{"exit": "end", "again": "a"},
						WithRetryGuard(RetryGuard{Max: 0, Loop: []string{"again"}, Fallback: "exit"}))
			},
			want: "route from 'a': retry max must be at least 1, got 0",
		},
		{
			name: "terminal with outgoing edge",
			builder: func() *Builder {
				return loopBuilder().AddEdge("done", "present")
			},
			want: "terminal node 'done' has an outgoing edge",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def, err := tc.builder().Build()
			require.Nil(t, def)
			assert.Contains(t, requireProblems(t, err), tc.want)
		})
	}
}

func TestBuild_ReportsAllProblems(t *testing.T) {
	_, err := NewBuilder("broken").
		AddNode("a", noop).
		SetStart("a").
		AddEdge("a", "b").
		Build()

	problems := requireProblems(t, err)
	assert.Contains(t, problems, "no terminal node declared")
	assert.Contains(t, problems, "edge 'a' -> 'b': destination node is not registered")
	assert.Contains(t, err.Error(), `graph "broken" definition failed:`)
}

func TestBuild_IsImmutable(t *testing.T) {
	labels := map[string]string{"again": "present", "exit": "reset"}
	def, err := NewBuilder("loop").
		AddNode("present", noop).
		AddNode("reset", noop).
		AddTerminal("done").
		SetStart("present").
		AddRoute("present", constRouter, labels).
		AddEdge("reset", "done").
		Build()
	require.NoError(t, err)

	labels["exit"] = "present"

	r, _ := def.Route("present")
	dest, _ := r.Destination("exit")
	assert.Equal(t, "reset", dest, "mutating the builder input must not leak into the definition")
}
