package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tasteofegypt/internal/models"
)

// InMemoryOrderRepository is an in-memory implementation of OrderRepository.
type InMemoryOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewInMemoryOrderRepository creates a new instance of InMemoryOrderRepository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create stores a new order. An existing id is never overwritten.
func (r *InMemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.OrderID]; exists {
		return fmt.Errorf("failed to create order %s: %w", order.OrderID, ErrDuplicateKey)
	}
	r.orders[order.OrderID] = order.Clone()
	return nil
}

// GetByID returns a copy of the order with the given id.
func (r *InMemoryOrderRepository) GetByID(_ context.Context, orderID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}
	out := order.Clone()
	return &out, nil
}

// ListByUser returns the user's orders, newest first.
func (r *InMemoryOrderRepository) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, order.Clone())
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

// List returns one page of orders matching filter plus the total match count.
func (r *InMemoryOrderRepository) List(_ context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Order, 0)
	for _, order := range r.orders {
		if filter.Status == "" || order.Status == filter.Status {
			matched = append(matched, order.Clone())
		}
	}
	sortNewestFirst(matched)

	total := int64(len(matched))
	start := filter.Offset()
	if start >= len(matched) {
		return []models.Order{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return matched[start:end], total, nil
}

// Save replaces a stored order if its version still matches.
func (r *InMemoryOrderRepository) Save(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.OrderID]
	if !ok {
		return fmt.Errorf("order %s: %w", order.OrderID, ErrOrderNotFound)
	}
	if stored.Version != order.Version {
		return fmt.Errorf("order %s at version %d: %w", order.OrderID, order.Version, ErrStaleOrder)
	}
	order.Version++
	r.orders[order.OrderID] = order.Clone()
	return nil
}

// Stats aggregates dashboard counters. Revenue excludes cancelled orders.
func (r *InMemoryOrderRepository) Stats(_ context.Context, since time.Time) (models.OrderStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats models.OrderStats
	for _, order := range r.orders {
		switch order.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusConfirmed:
			stats.Confirmed++
		case models.StatusPreparing:
			stats.Preparing++
		case models.StatusReady:
			stats.Ready++
		}
		today := !order.CreatedAt.Before(since)
		if today {
			stats.TodayOrders++
		}
		if order.Status == models.StatusCancelled {
			continue
		}
		stats.TotalOrders++
		stats.TotalRevenue += order.Pricing.Total
		if today {
			stats.TodayRevenue += order.Pricing.Total
		}
	}
	return stats, nil
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
