// Package reconcile completes possibly-partial remote cart rows into
// fully populated cart items. The backend is authoritative only for id
// and quantity; product details are recovered from an ordered list of
// strategies: the row itself, the user's backup snapshot, the local
// catalog snapshot, and finally a placeholder.
package reconcile

import (
	"context"
	"errors"

	"github.com/01moynul/bookstore-cart/internal/models"
	"go.uber.org/zap"
)

// PlaceholderName labels an item whose product details could not be found.
const PlaceholderName = "Sản phẩm không xác định"

// ErrMiss is the internal signal that no strategy produced product data.
// It is logged, never surfaced: the row becomes a placeholder item.
var ErrMiss = errors.New("reconcile: no source has product data for row")

// BackupReader loads a user's backup snapshot.
type BackupReader interface {
	Load(ctx context.Context, userID string) ([]models.CartItem, error)
}

// CatalogReader loads the local catalog snapshot.
type CatalogReader interface {
	Load(ctx context.Context) ([]models.CatalogEntry, error)
}

// Strategy turns a row into an item, or reports ErrMiss.
type Strategy interface {
	Name() string
	Resolve(row models.CartRow, src *Sources) (models.CartItem, error)
}

// Reconciler applies its strategies in order; the first hit wins.
type Reconciler struct {
	backup     BackupReader
	catalog    CatalogReader
	strategies []Strategy
	logger     *zap.Logger
}

type Option func(*Reconciler)

// WithStrategies replaces the default strategy order.
func WithStrategies(s ...Strategy) Option {
	return func(r *Reconciler) { r.strategies = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// New returns a Reconciler using AsIs, FromBackup, FromCatalog in that order.
func New(backup BackupReader, catalog CatalogReader, opts ...Option) *Reconciler {
	r := &Reconciler{
		backup:     backup,
		catalog:    catalog,
		strategies: []Strategy{AsIs{}, FromBackup{}, FromCatalog{}},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile completes a single row.
func (r *Reconciler) Reconcile(ctx context.Context, userID string, row models.CartRow) models.CartItem {
	return r.resolve(row, r.sources(ctx, userID))
}

// ReconcileAll completes every row. Rows with quantity below 1 and later
// rows repeating an already-seen productId are dropped, so the result
// holds at most one item per product.
func (r *Reconciler) ReconcileAll(ctx context.Context, userID string, rows []models.CartRow) []models.CartItem {
	src := r.sources(ctx, userID)
	items := make([]models.CartItem, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		if row.Quantity < 1 {
			r.logger.Warn("dropping cart row with non-positive quantity",
				zap.String("user_id", userID), zap.String("row_id", row.ID.String()), zap.Int("quantity", row.Quantity))
			continue
		}

		item := r.resolve(row, src)
		if seen[item.ProductID] {
			r.logger.Warn("dropping duplicate cart row",
				zap.String("user_id", userID), zap.String("row_id", row.ID.String()), zap.String("product_id", item.ProductID))
			continue
		}
		seen[item.ProductID] = true
		items = append(items, item)
	}
	return items
}

func (r *Reconciler) resolve(row models.CartRow, src *Sources) models.CartItem {
	for _, s := range r.strategies {
		item, err := s.Resolve(row, src)
		if err == nil {
			if item.UserID == "" {
				item.UserID = src.userID
			}
			return item
		}
		if !errors.Is(err, ErrMiss) {
			r.logger.Warn("reconcile strategy failed", zap.String("strategy", s.Name()), zap.Error(err))
		}
	}

	r.logger.Debug("reconciliation miss, using placeholder",
		zap.String("user_id", src.userID), zap.String("row_id", row.ID.String()), zap.Error(ErrMiss))
	item := Placeholder(row)
	if item.UserID == "" {
		item.UserID = src.userID
	}
	return item
}

func (r *Reconciler) sources(ctx context.Context, userID string) *Sources {
	return &Sources{ctx: ctx, userID: userID, r: r}
}

// Sources gives strategies lazy, load-once access to the fallback data.
// A source that fails to load is logged and treated as empty.
type Sources struct {
	ctx    context.Context
	userID string
	r      *Reconciler

	backup        []models.CartItem
	backupLoaded  bool
	catalog       []models.CatalogEntry
	catalogLoaded bool
}

// NewSources builds Sources over fixed data, for strategies used on their own.
func NewSources(userID string, backup []models.CartItem, catalog []models.CatalogEntry) *Sources {
	return &Sources{
		userID:        userID,
		backup:        backup,
		backupLoaded:  true,
		catalog:       catalog,
		catalogLoaded: true,
	}
}

// UserID is the owner of the rows being reconciled.
func (s *Sources) UserID() string { return s.userID }

// Backup returns the user's backup snapshot.
func (s *Sources) Backup() []models.CartItem {
	if !s.backupLoaded {
		s.backupLoaded = true
		if s.r != nil && s.r.backup != nil {
			items, err := s.r.backup.Load(s.ctx, s.userID)
			if err != nil {
				s.r.logger.Warn("backup snapshot unavailable", zap.String("user_id", s.userID), zap.Error(err))
			}
			s.backup = items
		}
	}
	return s.backup
}

// Catalog returns the catalog snapshot.
func (s *Sources) Catalog() []models.CatalogEntry {
	if !s.catalogLoaded {
		s.catalogLoaded = true
		if s.r != nil && s.r.catalog != nil {
			entries, err := s.r.catalog.Load(s.ctx)
			if err != nil {
				s.r.logger.Warn("catalog snapshot unavailable", zap.Error(err))
			}
			s.catalog = entries
		}
	}
	return s.catalog
}
