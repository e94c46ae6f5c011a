// Package catalog reads the product catalog snapshot the storefront keeps
// in local storage. The cart only ever reads it, as a last resort when a
// remote cart row lacks product details.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/01moynul/bookstore-cart/internal/models"
	"github.com/01moynul/bookstore-cart/internal/storage"
)

// Storage keys, in lookup order.
const (
	PrimaryKey   = "books"
	SecondaryKey = "products"
)

// Snapshot is the locally persisted catalog.
type Snapshot struct {
	kv storage.Storage
}

func NewSnapshot(kv storage.Storage) *Snapshot {
	return &Snapshot{kv: kv}
}

// Load returns the catalog under PrimaryKey, or under SecondaryKey when the
// primary is missing or empty.
func (s *Snapshot) Load(ctx context.Context) ([]models.CatalogEntry, error) {
	entries, err := s.load(ctx, PrimaryKey)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}
	return s.load(ctx, SecondaryKey)
}

func (s *Snapshot) load(ctx context.Context, key string) ([]models.CatalogEntry, error) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", key, err)
	}
	raw = bytes.TrimSpace(raw)
	if !found || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var entries []models.CatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", key, err)
	}
	return entries, nil
}

// Find returns the first entry whose id is one of ids. Empty ids never match.
func Find(entries []models.CatalogEntry, ids ...models.FlexID) (models.CatalogEntry, bool) {
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		for _, id := range ids {
			if id != "" && e.ID == id {
				return e, true
			}
		}
	}
	return models.CatalogEntry{}, false
}

// Import replaces the primary catalog key. Only tooling outside the cart
// (cartctl catalog import/sync) writes the catalog.
func (s *Snapshot) Import(ctx context.Context, entries []models.CatalogEntry) error {
	if entries == nil {
		entries = []models.CatalogEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, PrimaryKey, raw); err != nil {
		return fmt.Errorf("import catalog: %w", err)
	}
	return nil
}
