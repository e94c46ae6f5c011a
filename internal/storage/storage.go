// Package storage provides the durable key/value stores the cart core
// persists its local state in. Values are opaque bytes (JSON documents in
// practice); keys are plain strings such as "cart_backup_42" or "books".
package storage

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned when a write would exceed the store's quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Storage is a durable string-keyed value store.
type Storage interface {
	// Get returns the value under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
