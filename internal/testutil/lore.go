package testutil

import "github.com/specialistvlad/talegrid/internal/lore"

// Lore returns a small in-memory library with one rule and one story passage.
func Lore() *lore.Memory {
	return lore.NewMemory([]lore.Passage{
		{Kind: lore.KindRule, Title: "Resting", Text: "A night at an inn restores all hit points."},
		{Kind: lore.KindStory, Title: "Millbrook", Text: "Millbrook has a water mill and the Gilded Goose inn."},
	})
}
