package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/01moynul/bookstore-cart/internal/database"
	"github.com/01moynul/bookstore-cart/internal/storage"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the behaviour every Storage must share.
func exercise(t *testing.T, kv storage.Storage) {
	t.Helper()
	ctx := context.Background()

	_, found, err := kv.Get(ctx, "cart_backup_1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "cart_backup_1", []byte(`[{"id":"1"}]`)))
	v, found, err := kv.Get(ctx, "cart_backup_1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"1"}]`, string(v))

	require.NoError(t, kv.Set(ctx, "cart_backup_1", []byte(`[]`)))
	v, _, err = kv.Get(ctx, "cart_backup_1")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v))

	require.NoError(t, kv.Remove(ctx, "cart_backup_1"))
	_, found, err = kv.Get(ctx, "cart_backup_1")
	require.NoError(t, err)
	assert.False(t, found)

	// Removing a missing key is fine.
	require.NoError(t, kv.Remove(ctx, "cart_backup_1"))
}

func TestMemory(t *testing.T) {
	t.Run("success_round_trip", func(t *testing.T) {
		exercise(t, storage.NewMemory())
	})

	t.Run("returns_copies", func(t *testing.T) {
		ctx := context.Background()
		kv := storage.NewMemory()
		in := []byte("abc")
		require.NoError(t, kv.Set(ctx, "k", in))
		in[0] = 'x'

		out, _, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(out))
		out[0] = 'y'

		again, _, _ := kv.Get(ctx, "k")
		assert.Equal(t, "abc", string(again))
	})

	t.Run("quota_exceeded", func(t *testing.T) {
		ctx := context.Background()
		kv := storage.NewMemory(storage.WithQuota(10))

		require.NoError(t, kv.Set(ctx, "k", []byte("12345")))
		err := kv.Set(ctx, "other", []byte("12345"))
		assert.ErrorIs(t, err, storage.ErrQuotaExceeded)

		// Overwriting releases the old value first.
		require.NoError(t, kv.Set(ctx, "k", []byte("123456789")))
		require.NoError(t, kv.Remove(ctx, "k"))
		require.NoError(t, kv.Set(ctx, "other", []byte("12345")))
	})

	t.Run("cancelled_context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		kv := storage.NewMemory()
		assert.ErrorIs(t, kv.Set(ctx, "k", []byte("v")), context.Canceled)
	})
}

func TestSQL_SQLite(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	kv := storage.NewSQL(db, storage.DialectSQLite)
	require.NoError(t, kv.EnsureSchema(context.Background()))
	// Idempotent.
	require.NoError(t, kv.EnsureSchema(context.Background()))

	exercise(t, kv)
}

func TestSQL_MySQL(t *testing.T) {
	ctx := context.Background()

	t.Run("success_upsert_uses_duplicate_key", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		kv := storage.NewSQL(db, storage.DialectMySQL)

		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS local_storage")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
			WithArgs("books", `[{"id":1}]`, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, kv.EnsureSchema(ctx))
		require.NoError(t, kv.Set(ctx, "books", []byte(`[{"id":1}]`)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get_found_and_missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		kv := storage.NewSQL(db, storage.DialectMySQL)
		query := regexp.QuoteMeta("SELECT value FROM local_storage WHERE storage_key = ?")

		mock.ExpectQuery(query).WithArgs("books").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))
		mock.ExpectQuery(query).WithArgs("products").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		v, found, err := kv.Get(ctx, "books")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "[]", string(v))

		_, found, err = kv.Get(ctx, "products")
		require.NoError(t, err)
		assert.False(t, found)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error_is_wrapped", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		kv := storage.NewSQL(db, storage.DialectMySQL)
		dbErr := errors.New("connection reset")
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM local_storage")).
			WithArgs("cart_backup_7").
			WillReturnError(dbErr)

		err = kv.Remove(ctx, "cart_backup_7")
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "cart_backup_7")
	})

	t.Run("unknown_dialect", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		err = storage.NewSQL(db, "postgres").EnsureSchema(ctx)
		assert.Error(t, err)
	})
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	t.Run("success_round_trip", func(t *testing.T) {
		exercise(t, storage.NewRedis(rdb, "bookstore:"))
	})

	t.Run("keys_are_prefixed", func(t *testing.T) {
		kv := storage.NewRedis(rdb, "bookstore:")
		require.NoError(t, kv.Set(context.Background(), "cart_backup_2", []byte("[]")))

		v, err := mr.Get("bookstore:cart_backup_2")
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
		assert.False(t, mr.Exists("cart_backup_2"))
	})

	t.Run("server_down", func(t *testing.T) {
		down := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: down.Addr(), MaxRetries: -1})
		t.Cleanup(func() { client.Close() })
		down.Close()

		_, _, err := storage.NewRedis(client, "").Get(context.Background(), "k")
		assert.ErrorContains(t, err, "redis get k")
	})
}
