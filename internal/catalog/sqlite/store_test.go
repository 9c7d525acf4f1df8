package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/talegrid/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSeed() catalog.Seed {
	return catalog.Seed{
		Races: []catalog.RaceRecord{
			{
				Entry:    catalog.Entry{Name: "Human", Description: "Balanced"},
				Stats:    catalog.Stats{Strength: 3, Agility: 3, Mentality: 3, Luck: 3, Intelligence: 3, BaseHP: 100},
				Location: catalog.Location{Type: "village", Name: "Millbrook"},
			},
			{
				Entry:    catalog.Entry{Name: "Elf", Description: "Nimble"},
				Stats:    catalog.Stats{Strength: 2, Agility: 5, Mentality: 3, Luck: 2, Intelligence: 3, BaseHP: 80},
				Location: catalog.Location{Type: "forest", Name: "Silverleaf"},
			},
		},
		Classes: []catalog.ClassRecord{
			{
				Entry: catalog.Entry{Name: "Warrior", Description: "Melee"},
				Stats: catalog.Stats{Strength: 5, Agility: 2, BaseHP: 10},
				Items: catalog.Items{Attack: "Longsword", Defense: "Chainmail"},
			},
		},
	}
}

func TestStore_SeedAndList(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.Seed(ctx, testSeed()))

	races, err := store.ListRaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Human", "Elf"}, catalog.Names(races))
	assert.Equal(t, "Nimble", races[1].Description)

	classes, err := store.ListClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Warrior"}, catalog.Names(classes))
}

func TestStore_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.Seed(ctx, testSeed()))

	seed := testSeed()
	seed.Races[0].Description = "Adaptable"
	require.NoError(t, store.Seed(ctx, seed))

	races, err := store.ListRaces(ctx)
	require.NoError(t, err)
	require.Len(t, races, 2)
	assert.Equal(t, "Adaptable", races[0].Description)
}

func TestStore_TotalStats(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.Seed(ctx, testSeed()))

	total, err := store.TotalStats(ctx, "Elf", "Warrior")
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{Strength: 7, Agility: 7, Mentality: 3, Luck: 2, Intelligence: 3, BaseHP: 90}, total)
	assert.Equal(t, 90, total.Status().CurrentHP)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.Seed(ctx, testSeed()))

	_, err := store.RaceStats(ctx, "Goblin")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = store.StartingItems(ctx, "Bard")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = store.StartingLocation(ctx, "Goblin")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestStore_CaseInsensitiveNames(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.Seed(ctx, testSeed()))

	loc, err := store.StartingLocation(ctx, "elf")
	require.NoError(t, err)
	assert.Equal(t, catalog.Location{Type: "forest", Name: "Silverleaf"}, loc)
}

func TestStore_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.Seed(ctx, testSeed()))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.TotalStats(ctx, "Human", "Warrior")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	require.Error(t, err)
}
