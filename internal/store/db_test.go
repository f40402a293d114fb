package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"patrons", "metadata", "cache_entries"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	var indexes int
	err = db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type='index' AND name IN
		 ('idx_patrons_category','idx_patrons_level','idx_patrons_created_at')`).Scan(&indexes)
	require.NoError(t, err)
	assert.Equal(t, 3, indexes)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// running again against an up-to-date schema is a no-op
	require.NoError(t, RunMigrations(ctx, db))
}
