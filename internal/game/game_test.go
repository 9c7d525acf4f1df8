package game_test

import (
	"context"
	"sync"
	"testing"

	"github.com/specialistvlad/talegrid/grids"
	"github.com/specialistvlad/talegrid/internal/engine"
	"github.com/specialistvlad/talegrid/internal/game"
	"github.com/specialistvlad/talegrid/internal/input"
	"github.com/specialistvlad/talegrid/internal/intent"
	"github.com/specialistvlad/talegrid/internal/sessionstore"
	"github.com/specialistvlad/talegrid/internal/state"
	"github.com/specialistvlad/talegrid/internal/testutil"
	"github.com/specialistvlad/talegrid/modules/charcreation"
	"github.com/specialistvlad/talegrid/modules/common"
	"github.com/specialistvlad/talegrid/modules/intro"
	"github.com/specialistvlad/talegrid/modules/village"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRepo wraps the memory repository and remembers every save.
type recordingRepo struct {
	*sessionstore.Memory
	mu       sync.Mutex
	saves    []state.GamePhase
	released []string
}

func (r *recordingRepo) Save(ctx context.Context, id string, st *state.SessionState) error {
	r.mu.Lock()
	r.saves = append(r.saves, st.Phase)
	r.mu.Unlock()
	return r.Memory.Save(ctx, id, st)
}

func (r *recordingRepo) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	r.released = append(r.released, id)
	r.mu.Unlock()
	return r.Memory.Release(ctx, id)
}

type collector struct {
	mu    sync.Mutex
	lines []string
}

func (c *collector) Narrate(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, text)
	return nil
}

func newGame(t *testing.T, fakes *testutil.Fakes, repo sessionstore.Repository) *game.Game {
	t.Helper()
	svc := fakes.Services()
	defs := testutil.Compile(t, grids.FS,
		&common.Module{},
		&intro.Module{Services: svc},
		&charcreation.Module{Services: svc},
		&village.Module{Services: svc},
	)
	g, err := game.New(engine.New(), repo, defs[grids.CharacterCreation], defs[grids.Village])
	require.NoError(t, err)
	return g
}

func TestSession_PlaysAllActs(t *testing.T) {
	// Arrange
	fakes := testutil.NewFakes()
	fakes.Classifier = testutil.NewClassifier(intent.Negative, intent.Negative, intent.LookAround, intent.GoToDungeon)
	fakes.Choices = testutil.NewChoices(testutil.Chose("Elf"), testutil.Chose("Warrior"))
	fakes.Names = testutil.NewNames(testutil.ValidName("Aria"))
	repo := &recordingRepo{Memory: sessionstore.NewMemory(0)}
	g := newGame(t, fakes, repo)
	out := &collector{}

	// Act
	s := g.Session("", input.Lines("no", "no", "elf", "warrior", "Aria", "look around", "dungeon"), out)
	st, err := s.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Aria", st.Character.Name)
	assert.Equal(t, []string{grids.CharacterCreation, grids.Village}, g.Acts())
	assert.Equal(t, []state.GamePhase{state.PhaseExploration, state.PhaseExploration}, repo.saves)
	assert.Equal(t, []string{s.ID}, repo.released)
	assert.Zero(t, repo.Len(), "a finished session is torn down")
	assert.Equal(t, st.SystemMessages, out.lines, "every narration reaches the sink in order")
}

func TestSession_PlayerLeavesEarly(t *testing.T) {
	fakes := testutil.NewFakes()
	fakes.Classifier = testutil.NewClassifier(intent.Positive)
	repo := &recordingRepo{Memory: sessionstore.NewMemory(0)}
	g := newGame(t, fakes, repo)

	s := g.Session("player-1", input.Lines("tell me more"), nil)
	st, err := s.Run(context.Background())

	require.ErrorIs(t, err, input.ErrSessionTerminated)
	require.NotNil(t, st)
	assert.Equal(t, []string{"tell me more"}, st.UserMessages)
	assert.Empty(t, repo.saves, "an unfinished act is not saved")
	assert.Equal(t, []string{"player-1"}, repo.released)
}

func TestNew_Validation(t *testing.T) {
	_, err := game.New(nil, sessionstore.NewMemory(0))
	require.Error(t, err)

	_, err = game.New(engine.New(), sessionstore.NewMemory(0))
	require.Error(t, err)
}
