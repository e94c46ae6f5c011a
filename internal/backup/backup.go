// Package backup keeps a durable per-user copy of the full cart. The
// remote service may return less data than was written, so the cart
// falls back to this snapshot when it needs the denormalized product
// fields back.
package backup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/01moynul/bookstore-cart/internal/models"
	"github.com/01moynul/bookstore-cart/internal/storage"
)

const keyPrefix = "cart_backup_"

// Key is the storage key of userID's snapshot.
func Key(userID string) string {
	return keyPrefix + userID
}

// StorageError reports a failed snapshot write.
type StorageError struct {
	Op     string
	UserID string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("backup %s for user %s: %v", e.Op, e.UserID, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store reads and writes cart snapshots in a storage.Storage.
type Store struct {
	kv storage.Storage
}

func NewStore(kv storage.Storage) *Store {
	return &Store{kv: kv}
}

// Load returns userID's snapshot. A missing snapshot is empty, not an error.
func (s *Store) Load(ctx context.Context, userID string) ([]models.CartItem, error) {
	raw, found, err := s.kv.Get(ctx, Key(userID))
	if err != nil {
		return nil, fmt.Errorf("load backup for user %s: %w", userID, err)
	}
	if !found || len(raw) == 0 {
		return []models.CartItem{}, nil
	}

	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode backup for user %s: %w", userID, err)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// Save replaces userID's snapshot with items.
func (s *Store) Save(ctx context.Context, userID string, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return &StorageError{Op: "save", UserID: userID, Err: err}
	}
	if err := s.kv.Set(ctx, Key(userID), raw); err != nil {
		return &StorageError{Op: "save", UserID: userID, Err: err}
	}
	return nil
}

// Append adds item to the end of userID's snapshot. An unreadable
// snapshot is replaced rather than blocking the write.
func (s *Store) Append(ctx context.Context, userID string, item models.CartItem) error {
	items, err := s.Load(ctx, userID)
	if err != nil {
		items = nil
	}
	return s.Save(ctx, userID, append(items, item))
}

// Delete removes userID's snapshot entirely.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if err := s.kv.Remove(ctx, Key(userID)); err != nil {
		return &StorageError{Op: "delete", UserID: userID, Err: err}
	}
	return nil
}
