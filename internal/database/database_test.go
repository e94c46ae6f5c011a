package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB(t *testing.T) {
	t.Run("unsupported_driver", func(t *testing.T) {
		_, err := OpenDB("postgres", "whatever")
		assert.Error(t, err)
	})

	t.Run("sqlite_requires_path", func(t *testing.T) {
		_, err := OpenDB(DriverSQLite, "  ")
		assert.Error(t, err)
	})

	t.Run("sqlite_file_with_schema", func(t *testing.T) {
		db, err := OpenDB(DriverSQLite, t.TempDir()+"/backend.db")
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		require.NoError(t, EnsureSchema(ctx, db, DriverSQLite))
		require.NoError(t, EnsureSchema(ctx, db, DriverSQLite))

		var n int
		require.NoError(t, db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'books', 'carts')").Scan(&n))
		assert.Equal(t, 3, n)
	})
}
