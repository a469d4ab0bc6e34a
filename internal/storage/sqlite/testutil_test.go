package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestDB opens a fresh database file and applies migrations.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "pools.db"))
	require.NoError(t, err, "failed to open sqlite")
	t.Cleanup(func() { db.Close() })

	dir := filepath.Join("..", "migrations", "sqlite")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "failed to read migrations directory")

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, f := range files {
		content, err := os.ReadFile(filepath.Join(dir, f))
		require.NoError(t, err, "failed to read migration %s", f)
		_, err = db.ExecContext(ctx, string(content))
		require.NoError(t, err, "failed to apply migration %s", f)
	}

	return db
}
