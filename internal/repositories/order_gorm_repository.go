package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasteofegypt/internal/models"

	"gorm.io/gorm"
)

// orderRecord is the row layout of the orders table.
type orderRecord struct {
	OrderID       string             `gorm:"primaryKey;type:varchar(40)"`
	UserID        string             `gorm:"index:idx_orders_user_created,priority:1;type:varchar(36);not null"`
	Items         []models.OrderItem `gorm:"serializer:json;type:text;not null"`
	OrderType     string             `gorm:"type:varchar(16);not null"`
	Address       *models.Address    `gorm:"serializer:json;type:text"`
	Phone         string             `gorm:"type:varchar(40);not null"`
	Notes         string             `gorm:"type:text"`
	ScheduledTime string             `gorm:"type:varchar(64)"`
	Subtotal      float64            `gorm:"not null"`
	DeliveryFee   float64            `gorm:"not null"`
	Tax           float64            `gorm:"not null"`
	Total         float64            `gorm:"not null"`
	IsFirstOrder  bool               `gorm:"not null"`
	Status        string             `gorm:"index;type:varchar(16);not null"`
	PaymentStatus string             `gorm:"type:varchar(16);not null"`
	PendingAt     *time.Time
	ConfirmedAt   *time.Time
	PreparingAt   *time.Time
	ReadyAt       *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	Version       int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"index:idx_orders_user_created,priority:2;not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (orderRecord) TableName() string { return "orders" }

func newOrderRecord(o *models.Order) orderRecord {
	ts := o.StatusTimestamps
	return orderRecord{
		OrderID:       o.OrderID,
		UserID:        o.UserID,
		Items:         o.Items,
		OrderType:     string(o.OrderType),
		Address:       o.Address,
		Phone:         o.Phone,
		Notes:         o.Notes,
		ScheduledTime: o.ScheduledTime,
		Subtotal:      o.Pricing.Subtotal,
		DeliveryFee:   o.Pricing.DeliveryFee,
		Tax:           o.Pricing.Tax,
		Total:         o.Pricing.Total,
		IsFirstOrder:  o.IsFirstOrder,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PendingAt:     ts.Pending,
		ConfirmedAt:   ts.Confirmed,
		PreparingAt:   ts.Preparing,
		ReadyAt:       ts.Ready,
		CompletedAt:   ts.Completed,
		CancelledAt:   ts.Cancelled,
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (r orderRecord) toModel() models.Order {
	return models.Order{
		OrderID:       r.OrderID,
		UserID:        r.UserID,
		Items:         r.Items,
		OrderType:     models.OrderType(r.OrderType),
		Address:       r.Address,
		Phone:         r.Phone,
		Notes:         r.Notes,
		ScheduledTime: r.ScheduledTime,
		Pricing: models.Pricing{
			Subtotal:    r.Subtotal,
			DeliveryFee: r.DeliveryFee,
			Tax:         r.Tax,
			Total:       r.Total,
		},
		IsFirstOrder:  r.IsFirstOrder,
		Status:        models.OrderStatus(r.Status),
		PaymentStatus: models.PaymentStatus(r.PaymentStatus),
		StatusTimestamps: models.StatusTimestamps{
			Pending:   r.PendingAt,
			Confirmed: r.ConfirmedAt,
			Preparing: r.PreparingAt,
			Ready:     r.ReadyAt,
			Completed: r.CompletedAt,
			Cancelled: r.CancelledAt,
		},
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// AutoMigrate creates or updates the orders table.
func (r *GORMOrderRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&orderRecord{}); err != nil {
		return fmt.Errorf("failed to migrate orders: %w", err)
	}
	return nil
}

// Create inserts a new order. The id check and insert share a transaction so
// an existing row is never overwritten.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	rec := newOrderRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&orderRecord{}).Where("order_id = ?", rec.OrderID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateKey
		}
		return tx.Create(&rec).Error
	})
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to create order %s: %w", order.OrderID, ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("failed to create order %s: %w", order.OrderID, err)
	}
	return nil
}

// GetByID retrieves a single order by its order id.
func (r *GORMOrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	var rec orderRecord
	if err := r.db.WithContext(ctx).First(&rec, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	order := rec.toModel()
	return &order, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var recs []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return toModels(recs), nil
}

// List returns one page of orders matching filter plus the total match count.
func (r *GORMOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&orderRecord{})
		if filter.Status != "" {
			query = query.Where("status = ?", string(filter.Status))
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	page := scoped().Order("created_at DESC").Offset(filter.Offset())
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit)
	}
	var recs []orderRecord
	if err := page.Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return toModels(recs), total, nil
}

// Save writes the mutable fields of order if the stored version still matches.
func (r *GORMOrderRepository) Save(ctx context.Context, order *models.Order) error {
	rec := newOrderRecord(order)
	res := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("order_id = ? AND version = ?", rec.OrderID, rec.Version).
		Updates(map[string]any{
			"status":         rec.Status,
			"payment_status": rec.PaymentStatus,
			"pending_at":     rec.PendingAt,
			"confirmed_at":   rec.ConfirmedAt,
			"preparing_at":   rec.PreparingAt,
			"ready_at":       rec.ReadyAt,
			"completed_at":   rec.CompletedAt,
			"cancelled_at":   rec.CancelledAt,
			"version":        rec.Version + 1,
			"updated_at":     rec.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to save order %s: %w", order.OrderID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the row is gone or another writer bumped the version.
		var count int64
		if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("order_id = ?", rec.OrderID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to save order %s: %w", order.OrderID, err)
		}
		if count == 0 {
			return fmt.Errorf("order %s: %w", order.OrderID, ErrOrderNotFound)
		}
		return fmt.Errorf("order %s at version %d: %w", order.OrderID, order.Version, ErrStaleOrder)
	}
	order.Version++
	return nil
}

// Stats aggregates dashboard counters. Revenue excludes cancelled orders.
func (r *GORMOrderRepository) Stats(ctx context.Context, since time.Time) (models.OrderStats, error) {
	db := r.db.WithContext(ctx)
	// sqlite compares stored times as text, so both sides must be UTC.
	since = since.UTC()
	var stats models.OrderStats

	var counts []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&orderRecord{}).Select("status, COUNT(*) AS count").Group("status").Scan(&counts).Error; err != nil {
		return stats, fmt.Errorf("failed to count orders by status: %w", err)
	}
	for _, c := range counts {
		switch models.OrderStatus(c.Status) {
		case models.StatusPending:
			stats.Pending = c.Count
		case models.StatusConfirmed:
			stats.Confirmed = c.Count
		case models.StatusPreparing:
			stats.Preparing = c.Count
		case models.StatusReady:
			stats.Ready = c.Count
		}
	}

	notCancelled := "status <> ?"
	cancelled := string(models.StatusCancelled)
	if err := db.Model(&orderRecord{}).Where("created_at >= ?", since).Count(&stats.TodayOrders).Error; err != nil {
		return stats, fmt.Errorf("failed to count today's orders: %w", err)
	}
	if err := db.Model(&orderRecord{}).Where(notCancelled, cancelled).Count(&stats.TotalOrders).Error; err != nil {
		return stats, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Model(&orderRecord{}).Select("COALESCE(SUM(total), 0.0)").
		Where(notCancelled, cancelled).Where("created_at >= ?", since).
		Scan(&stats.TodayRevenue).Error; err != nil {
		return stats, fmt.Errorf("failed to sum today's revenue: %w", err)
	}
	if err := db.Model(&orderRecord{}).Select("COALESCE(SUM(total), 0.0)").
		Where(notCancelled, cancelled).
		Scan(&stats.TotalRevenue).Error; err != nil {
		return stats, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return stats, nil
}

func toModels(recs []orderRecord) []models.Order {
	orders := make([]models.Order, 0, len(recs))
	for _, rec := range recs {
		orders = append(orders, rec.toModel())
	}
	return orders
}
