package sqlitemigrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUpSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (id INTEGER);\n", UpSection(content))
	assert.Equal(t, "CREATE TABLE b (id INTEGER);", UpSection("CREATE TABLE b (id INTEGER);"))
}

func TestApply_RunsOnce(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations := fstest.MapFS{
		"m/001_a.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;\n")},
		"m/002_b.sql": {Data: []byte("INSERT INTO a (id) VALUES (1);")},
	}
	ctx := context.Background()

	require.NoError(t, Apply(ctx, db, migrations, "m"))
	require.NoError(t, Apply(ctx, db, migrations, "m"), "reapplying must be a no-op")

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM a").Scan(&rows))
	assert.Equal(t, 1, rows, "the insert migration must run exactly once")

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)
}

func TestApply_RequiresDB(t *testing.T) {
	require.Error(t, Apply(context.Background(), nil, fstest.MapFS{}, "."))
}
