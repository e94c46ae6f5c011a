package cart

import (
	"context"

	"github.com/01moynul/bookstore-cart/internal/models"
)

//go:generate mockgen -source=ports.go -destination=../mock/cart/ports_mock.go -package=mock

// RemoteService is the network boundary for cart rows.
type RemoteService interface {
	GetAll(ctx context.Context, userID string) ([]models.CartRow, error)
	Add(ctx context.Context, item models.CartItem) (models.CartRow, error)
	Update(ctx context.Context, id string, item models.CartItem) (models.CartRow, error)
	Remove(ctx context.Context, id string) error
}

// BackupStore is the durable per-user snapshot of the full cart.
type BackupStore interface {
	Load(ctx context.Context, userID string) ([]models.CartItem, error)
	Save(ctx context.Context, userID string, items []models.CartItem) error
	Append(ctx context.Context, userID string, item models.CartItem) error
	Delete(ctx context.Context, userID string) error
}

// Reconciler completes partial remote rows into cart items.
type Reconciler interface {
	ReconcileAll(ctx context.Context, userID string, rows []models.CartRow) []models.CartItem
}
