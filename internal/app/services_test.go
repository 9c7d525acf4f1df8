package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/talegrid/grids"
	"github.com/specialistvlad/talegrid/internal/hcl"
	"github.com/specialistvlad/talegrid/internal/lore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCatalog_SeedsLore(t *testing.T) {
	ctx := context.Background()
	model, _, err := hcl.NewLoader(grids.FS).Load(ctx)
	require.NoError(t, err)

	for name, dsn := range map[string]string{
		"memory": MemoryCatalog,
		"sqlite": filepath.Join(t.TempDir(), "talegrid.db"),
	} {
		t.Run(name, func(t *testing.T) {
			cat, lib, closer, err := openCatalog(ctx, dsn, model.Catalog, model.Lore)
			require.NoError(t, err)
			if closer != nil {
				t.Cleanup(func() { _ = closer.Close() })
			}

			races, err := cat.ListRaces(ctx)
			require.NoError(t, err)
			assert.Len(t, races, len(model.Catalog.Races))

			got, err := lib.Search(ctx, lore.KindStory, "tell me about the Gilded Goose inn", lore.DefaultK)
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.Equal(t, "Millbrook", got[0].Title)
		})
	}
}
