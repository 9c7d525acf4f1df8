package sqlite

import (
	"context"
	"testing"

	"github.com/specialistvlad/talegrid/internal/lore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLore() []lore.Passage {
	return []lore.Passage{
		{Kind: lore.KindRule, Title: "Combat", Text: "Attack rolls add strength to a d20 roll."},
		{Kind: lore.KindRule, Title: "Resting", Text: "A long rest restores all hit points."},
		{Kind: lore.KindStory, Title: "Millbrook", Text: "A quiet village on the river, known for its mill."},
	}
}

func TestStore_SearchLore(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.SeedLore(ctx, testLore()))

	t.Run("finds matching passages of the kind", func(t *testing.T) {
		got, err := store.Search(ctx, lore.KindRule, "how do I restore hit points?", 2)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, lore.Passage{Kind: lore.KindRule, Title: "Resting", Text: "A long rest restores all hit points."}, got[0])
	})

	t.Run("other kinds are not searched", func(t *testing.T) {
		got, err := store.Search(ctx, lore.KindStory, "attack roll", 2)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("query syntax in player input is inert", func(t *testing.T) {
		got, err := store.Search(ctx, lore.KindStory, `village" OR NEAR(mill`, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Millbrook", got[0].Title)
	})

	t.Run("blank query", func(t *testing.T) {
		got, err := store.Search(ctx, lore.KindRule, "  ", 2)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStore_SeedLoreUpdatesIndex(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.SeedLore(ctx, testLore()))

	require.NoError(t, store.SeedLore(ctx, []lore.Passage{
		{Kind: lore.KindRule, Title: "Resting", Text: "Sleeping at an inn heals wounds."},
	}))

	got, err := store.Search(ctx, lore.KindRule, "restores hit points", 2)
	require.NoError(t, err)
	assert.Empty(t, got, "the old text is no longer indexed")

	got, err = store.Search(ctx, lore.KindRule, "inn", 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sleeping at an inn heals wounds.", got[0].Text)

	require.Error(t, store.SeedLore(ctx, []lore.Passage{{Kind: lore.KindRule}}))
}
