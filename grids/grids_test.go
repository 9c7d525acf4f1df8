package grids_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/talegrid/grids"
	"github.com/specialistvlad/talegrid/internal/hcl"
	"github.com/specialistvlad/talegrid/internal/lore"
	"github.com/specialistvlad/talegrid/internal/testutil"
	"github.com/specialistvlad/talegrid/modules/charcreation"
	"github.com/specialistvlad/talegrid/modules/common"
	"github.com/specialistvlad/talegrid/modules/intro"
	"github.com/specialistvlad/talegrid/modules/village"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinGridsCompile(t *testing.T) {
	svc := testutil.NewFakes().Services()
	defs := testutil.Compile(t, grids.FS,
		&common.Module{},
		&intro.Module{Services: svc},
		&charcreation.Module{Services: svc},
		&village.Module{Services: svc},
	)

	require.Contains(t, defs, grids.CharacterCreation)
	require.Contains(t, defs, grids.Village)
	assert.Equal(t, "introduction", defs[grids.CharacterCreation].Start())
	assert.True(t, defs[grids.CharacterCreation].IsTerminal("character_ready"))
	assert.True(t, defs[grids.Village].IsTerminal("dungeon_gate"))
}

func TestBuiltinCatalog(t *testing.T) {
	model, _, err := hcl.NewLoader(grids.FS).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, model.Catalog.Races, 5)
	require.Len(t, model.Catalog.Classes, 4)
	elf := model.Catalog.Races[1]
	assert.Equal(t, "Elf", elf.Name)
	assert.Equal(t, 5, elf.Stats.Agility)
	assert.Equal(t, 80, elf.Stats.BaseHP)
	assert.Equal(t, "Longsword", model.Catalog.Classes[0].Items.Attack)
}

func TestBuiltinLore(t *testing.T) {
	model, _, err := hcl.NewLoader(grids.FS).Load(context.Background())
	require.NoError(t, err)

	lib := lore.NewMemory(model.Lore)
	rules, err := lib.Search(context.Background(), lore.KindRule, "how do I get my hit points back", lore.DefaultK)
	require.NoError(t, err)
	require.NotEmpty(t, rules)
	assert.Equal(t, "Hit points", rules[0].Title)

	story, err := lib.Search(context.Background(), lore.KindStory, "what is in the village of Millbrook", lore.DefaultK)
	require.NoError(t, err)
	require.NotEmpty(t, story)
	assert.Equal(t, "Millbrook", story[0].Title)
}
