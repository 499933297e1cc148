package repositories

import (
	"context"
	"errors"
	"time"

	"tasteofegypt/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrDuplicateKey  = errors.New("order id already exists")
	// ErrStaleOrder means the order changed since it was read.
	ErrStaleOrder = errors.New("order was modified concurrently")
)

// OrderRepository defines the interface for order data access.
//
// Save is a compare-and-swap on Order.Version: it succeeds only when the stored
// version equals the one on the argument, and bumps the version on success.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error)
	Save(ctx context.Context, order *models.Order) error
	Stats(ctx context.Context, since time.Time) (models.OrderStats, error)
}
