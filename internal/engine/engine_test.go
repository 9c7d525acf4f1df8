package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func say(msg string) graph.HandlerFunc {
	return func(context.Context, *state.SessionState) (state.Update, error) {
		return state.Update{SystemMessages: []string{msg}}, nil
	}
}

func always(label string) graph.RouterFunc {
	return func(context.Context, *state.SessionState) (string, error) {
		return label, nil
	}
}

// bumpQuestion increments QuestionTime like a presenting node does.
var bumpQuestion = graph.HandlerFunc(func(_ context.Context, st *state.SessionState) (state.Update, error) {
	return state.Update{QuestionTime: state.Ptr(st.QuestionTime + 1)}, nil
})

var resetQuestion = graph.HandlerFunc(func(context.Context, *state.SessionState) (state.Update, error) {
	return state.Update{QuestionTime: state.Ptr(0)}, nil
})

func TestRun_LinearGraph(t *testing.T) {
	def, err := graph.NewBuilder("linear").
		AddNode("a", say("one")).
		AddNode("b", say("two")).
		AddTerminal("end").
		SetStart("a").
		AddEdge("a", "b").
		AddEdge("b", "end").
		Build()
	require.NoError(t, err)

	st, err := New().Run(context.Background(), def, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, st.SystemMessages)
}

func TestRun_GuardedLoopTerminates(t *testing.T) {
	// The router never lets the session out; only the guard can.
	def, err := graph.NewBuilder("loop").
		AddNode("present", bumpQuestion).
		AddNode("input", say("waiting")).
		AddNode("reset", resetQuestion, graph.Reset()).
		AddTerminal("done").
		SetStart("present").
		AddEdge("present", "input").
		AddRoute("input", always("again"), map[string]string{"again": "present", "exit": "reset"},
			graph.WithRetryGuard(graph.RetryGuard{Max: 3, Loop: []string{"again"}, Fallback: "exit"})).
		AddEdge("reset", "done").
		Build()
	require.NoError(t, err)

	var presented, lastBeforeReset int
	obs := ObserverFunc(func(_ context.Context, ev StepEvent) {
		if ev.Node == "present" {
			presented++
			lastBeforeReset = *ev.Update.QuestionTime
		}
	})

	st, err := New().Run(context.Background(), def, state.New(), WithObserver(obs))
	require.NoError(t, err)
	assert.Equal(t, 3, presented)
	assert.Equal(t, 3, lastBeforeReset)
	assert.Zero(t, st.QuestionTime)
	assert.Zero(t, st.RetryCount(def.CounterKey("input")), "counter resets after the fallback")
}

func TestRun_ResetNeedsResetStep(t *testing.T) {
	def, err := graph.NewBuilder("sneaky_reset").
		AddNode("present", bumpQuestion).
		AddNode("clear", resetQuestion).
		AddTerminal("done").
		SetStart("present").
		AddEdge("present", "clear").
		AddEdge("clear", "done").
		Build()
	require.NoError(t, err)

	st, err := New().Run(context.Background(), def, nil)

	var nodeErr *NodeExecutionError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "clear", nodeErr.Node)
	var iv *state.InvariantViolation
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, 1, st.QuestionTime)
}

func TestRun_StepLimit(t *testing.T) {
	def, err := graph.NewBuilder("runaway").
		AddNode("spin", say("again")).
		AddTerminal("never").
		SetStart("spin").
		AddRoute("spin", always("again"), map[string]string{"again": "spin", "exit": "never"}).
		Build()
	require.NoError(t, err)

	st, err := New(WithStepLimit(50)).Run(context.Background(), def, nil)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, ReasonStepLimit, execErr.Reason)
	assert.Equal(t, 50, execErr.Steps)
	assert.Len(t, st.SystemMessages, 50)
}

func TestRun_HandlerError(t *testing.T) {
	boom := errors.New("generator offline")
	def, err := graph.NewBuilder("failing").
		AddNode("a", graph.HandlerFunc(func(context.Context, *state.SessionState) (state.Update, error) {
			return state.Update{}, boom
		})).
		AddTerminal("end").
		SetStart("a").
		AddEdge("a", "end").
		Build()
	require.NoError(t, err)

	_, err = New().Run(context.Background(), def, nil)

	var nodeErr *NodeExecutionError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "a", nodeErr.Node)
	assert.ErrorIs(t, err, boom)
}

func TestRun_InvariantViolationAborts(t *testing.T) {
	def, err := graph.NewBuilder("bad").
		AddNode("a", graph.HandlerFunc(func(context.Context, *state.SessionState) (state.Update, error) {
			return state.Update{QuestionTime: state.Ptr(-1)}, nil
		})).
		AddTerminal("end").
		SetStart("a").
		AddEdge("a", "end").
		Build()
	require.NoError(t, err)

	_, err = New().Run(context.Background(), def, nil)

	var iv *state.InvariantViolation
	require.ErrorAs(t, err, &iv)
	var nodeErr *NodeExecutionError
	require.ErrorAs(t, err, &nodeErr)
}

func TestRun_CommitNodes(t *testing.T) {
	setRace := graph.HandlerFunc(func(context.Context, *state.SessionState) (state.Update, error) {
		return state.Update{Character: &state.CharacterPatch{Race: state.Ptr("Elf")}}, nil
	})

	t.Run("commit node may set race", func(t *testing.T) {
		def, err := graph.NewBuilder("commit").
			AddNode("fix", setRace, graph.Commit()).
			AddTerminal("end").SetStart("fix").AddEdge("fix", "end").
			Build()
		require.NoError(t, err)

		st, err := New().Run(context.Background(), def, nil)
		require.NoError(t, err)
		assert.Equal(t, "Elf", st.Character.Race)
	})

	t.Run("plain node may not", func(t *testing.T) {
		def, err := graph.NewBuilder("plain").
			AddNode("fix", setRace).
			AddTerminal("end").SetStart("fix").AddEdge("fix", "end").
			Build()
		require.NoError(t, err)

		_, err = New().Run(context.Background(), def, nil)
		var iv *state.InvariantViolation
		require.ErrorAs(t, err, &iv)
	})
}

func TestRun_RouterErrors(t *testing.T) {
	t.Run("unmapped label", func(t *testing.T) {
		def, err := graph.NewBuilder("typo").
			AddNode("a", say("hi")).
			AddTerminal("end").
			SetStart("a").
			AddRoute("a", always("exitt"), map[string]string{"exit": "end"}).
			Build()
		require.NoError(t, err)

		_, err = New().Run(context.Background(), def, nil)

		var routerErr *RouterError
		require.ErrorAs(t, err, &routerErr)
		assert.Equal(t, "exitt", routerErr.Label)
		assert.Contains(t, err.Error(), "no destination")
	})

	t.Run("router failure", func(t *testing.T) {
		boom := errors.New("classifier down")
		def, err := graph.NewBuilder("down").
			AddNode("a", say("hi")).
			AddTerminal("end").
			SetStart("a").
			AddRoute("a", graph.RouterFunc(func(context.Context, *state.SessionState) (string, error) {
				return "", boom
			}), map[string]string{"exit": "end"}).
			Build()
		require.NoError(t, err)

		_, err = New().Run(context.Background(), def, nil)

		var nodeErr *NodeExecutionError
		require.ErrorAs(t, err, &nodeErr)
		assert.Equal(t, "a", nodeErr.Node)
		assert.ErrorIs(t, err, boom)
		var routerErr *RouterError
		assert.False(t, errors.As(err, &routerErr), "a failing router is not a graph authoring defect")
	})
}

func TestRun_HandlersSeeSnapshots(t *testing.T) {
	def, err := graph.NewBuilder("snapshot").
		AddNode("a", graph.HandlerFunc(func(_ context.Context, st *state.SessionState) (state.Update, error) {
			st.UserMessages = append(st.UserMessages, "sneaky")
			st.QuestionTime = 42
			return state.Update{}, nil
		})).
		AddTerminal("end").SetStart("a").AddEdge("a", "end").
		Build()
	require.NoError(t, err)

	st, err := New().Run(context.Background(), def, nil)
	require.NoError(t, err)
	assert.Empty(t, st.UserMessages)
	assert.Zero(t, st.QuestionTime)
}

func TestRun_ObserverSeesTerminalTransition(t *testing.T) {
	def, err := graph.NewBuilder("obs").
		AddNode("a", say("one")).
		AddNode("b", say("two")).
		AddTerminal("end").
		SetStart("a").AddEdge("a", "b").AddEdge("b", "end").
		Build()
	require.NoError(t, err)

	var events []StepEvent
	_, err = New().Run(context.Background(), def, nil, WithObserver(ObserverFunc(func(_ context.Context, ev StepEvent) {
		events = append(events, ev)
	})))
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].Next)
	assert.False(t, events[0].Terminal)
	assert.Equal(t, "end", events[1].Next)
	assert.True(t, events[1].Terminal)
	assert.Equal(t, 2, events[1].Step)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	def, err := graph.NewBuilder("cancel").
		AddNode("a", graph.HandlerFunc(func(context.Context, *state.SessionState) (state.Update, error) {
			cancel()
			return state.Update{}, nil
		})).
		AddNode("b", say("unreachable")).
		AddTerminal("end").
		SetStart("a").AddEdge("a", "b").AddEdge("b", "end").
		Build()
	require.NoError(t, err)

	st, err := New().Run(ctx, def, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, st.SystemMessages)
}

// TestRun_TerminationBound checks that a graph whose only cycles are guarded
// always stops within the sum of guard maximums times the loop length plus
// the node count, whatever the routers answer.
func TestRun_TerminationBound(t *testing.T) {
	for _, label := range []string{"again", "exit"} {
		t.Run(fmt.Sprintf("router answers %s", label), func(t *testing.T) {
			b := graph.NewBuilder("chain")
			const loops, maxTries = 4, 3
			for i := 0; i < loops; i++ {
				present := fmt.Sprintf("present_%d", i)
				input := fmt.Sprintf("input_%d", i)
				next := fmt.Sprintf("present_%d", i+1)
				if i == loops-1 {
					next = "end"
				}
				b.AddNode(present, say(present)).
					AddNode(input, say(input)).
					AddEdge(present, input).
					AddRoute(input, always(label), map[string]string{"again": present, "exit": next},
						graph.WithRetryGuard(graph.RetryGuard{Max: maxTries, Loop: []string{"again"}, Fallback: "exit"}))
			}
			def, err := b.AddTerminal("end").SetStart("present_0").Build()
			require.NoError(t, err)

			steps := 0
			_, err = New().Run(context.Background(), def, nil, WithObserver(ObserverFunc(func(context.Context, StepEvent) {
				steps++
			})))
			require.NoError(t, err)
			assert.LessOrEqual(t, steps, loops*maxTries*2+len(def.Nodes()))
		})
	}
}
