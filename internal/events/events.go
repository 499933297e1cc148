package events

import (
	"context"
	"time"

	"tasteofegypt/internal/models"

	"github.com/oklog/ulid/v2"
)

// Type names an order domain event. It doubles as the broker routing key.
type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
)

// Event is the payload published to the broker.
type Event struct {
	ID         string             `json:"id"`
	Type       Type               `json:"type"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	OrderType  models.OrderType   `json:"order_type"`
	Status     models.OrderStatus `json:"status"`
	Total      float64            `json:"total"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewOrderEvent snapshots order into an event of type t.
func NewOrderEvent(t Type, order models.Order, at time.Time) Event {
	return Event{
		ID:         ulid.Make().String(),
		Type:       t,
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		OrderType:  order.OrderType,
		Status:     order.Status,
		Total:      order.Pricing.Total,
		OccurredAt: at.UTC(),
	}
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                        { return nil }
