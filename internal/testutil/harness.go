// Package testutil provides fakes and a harness for running game graphs in tests.
package testutil

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/talegrid/internal/adventure"
	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/dice"
	"github.com/specialistvlad/talegrid/internal/engine"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/hcl"
	"github.com/specialistvlad/talegrid/internal/input"
	"github.com/specialistvlad/talegrid/internal/lore"
	"github.com/specialistvlad/talegrid/internal/registry"
	"github.com/specialistvlad/talegrid/internal/state"
	"github.com/stretchr/testify/require"
)

// Fakes are the scripted collaborators behind Services.
type Fakes struct {
	Narrator   *Narrator
	Classifier *Classifier
	Choices    *Choices
	Names      *Names
	Dice       *dice.Fixed
	Lore       lore.Library
}

// NewFakes returns fakes with empty scripts, a die that always rolls 10 and
// the fixture lore library.
func NewFakes() *Fakes {
	return &Fakes{
		Narrator:   &Narrator{},
		Classifier: NewClassifier(),
		Choices:    NewChoices(),
		Names:      NewNames(),
		Dice:       dice.NewFixed(10),
		Lore:       Lore(),
	}
}

// Services wires the fakes around the fixture catalog.
func (f *Fakes) Services() *adventure.Services {
	return &adventure.Services{
		Catalog:    Catalog(),
		Narrator:   f.Narrator,
		Classifier: f.Classifier,
		Choices:    f.Choices,
		Names:      f.Names,
		Dice:       f.Dice,
		Lore:       f.Lore,
	}
}

// Compile loads every grid in fsys and compiles it against mods.
func Compile(t *testing.T, fsys fs.FS, mods ...registry.Module) map[string]*graph.Definition {
	t.Helper()
	ctx := context.Background()

	model, conv, err := hcl.NewLoader(fsys).Load(ctx)
	require.NoError(t, err)

	r := registry.New()
	r.RegisterModules(mods...)
	defs, err := r.CompileAll(ctx, model, conv)
	require.NoError(t, err)
	return defs
}

// Result holds the outcome of one harness run.
type Result struct {
	State     *state.SessionState
	Steps     []engine.StepEvent
	Err       error
	LogOutput string
}

// Visits counts how often node ran.
func (r *Result) Visits(node string) int {
	n := 0
	for _, ev := range r.Steps {
		if ev.Node == node {
			n++
		}
	}
	return n
}

// Path returns the executed node names in order.
func (r *Result) Path() []string {
	out := make([]string, len(r.Steps))
	for i, ev := range r.Steps {
		out[i] = ev.Node
	}
	return out
}

// Run executes def against st with lines as the player's input. The input
// stream closes after the last line.
func Run(t *testing.T, def *graph.Definition, st *state.SessionState, lines ...string) *Result {
	t.Helper()
	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := ctxlog.WithLogger(context.Background(), logger)
	ctx = input.NewContext(ctx, input.Lines(lines...))

	var (
		mu    sync.Mutex
		steps []engine.StepEvent
	)
	obs := engine.ObserverFunc(func(_ context.Context, ev engine.StepEvent) {
		mu.Lock()
		defer mu.Unlock()
		steps = append(steps, ev)
	})

	final, err := engine.New(engine.WithStepLimit(500)).Run(ctx, def, st, engine.WithObserver(obs))
	if os.Getenv("TALEGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}
	return &Result{State: final, Steps: steps, Err: err, LogOutput: logs.String()}
}
