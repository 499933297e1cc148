package models

import "time"

// OrderType is how the customer receives the order.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

// Valid reports whether t is one of the known order types.
func (t OrderType) Valid() bool {
	return t == OrderTypeDelivery || t == OrderTypePickup
}

// PaymentStatus tracks the out-of-band e-transfer for an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentReceived PaymentStatus = "received"
	PaymentRefunded PaymentStatus = "refunded"
)

// Address is the delivery destination. Only delivery orders carry one.
type Address struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

// OrderItem is a snapshot of a menu item taken when the order was placed.
type OrderItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"` // Price at the time of order
	Quantity   int     `json:"quantity"`
}

// LineTotal is unit price times quantity.
func (i OrderItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Pricing holds the monetary breakdown computed once at creation.
type Pricing struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// Order represents a customer order.
type Order struct {
	OrderID          string           `json:"order_id"`
	UserID           string           `json:"user_id"`
	Items            []OrderItem      `json:"items"`
	OrderType        OrderType        `json:"order_type"`
	Address          *Address         `json:"address,omitempty"`
	Phone            string           `json:"phone"`
	Notes            string           `json:"notes,omitempty"`
	ScheduledTime    string           `json:"scheduled_time,omitempty"`
	Pricing          Pricing          `json:"pricing"`
	IsFirstOrder     bool             `json:"is_first_order"`
	Status           OrderStatus      `json:"status"`
	PaymentStatus    PaymentStatus    `json:"payment_status"`
	StatusTimestamps StatusTimestamps `json:"status_timestamps"`
	Version          int              `json:"-"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate it without touching stored state.
func (o Order) Clone() Order {
	out := o
	if o.Items != nil {
		out.Items = make([]OrderItem, len(o.Items))
		copy(out.Items, o.Items)
	}
	if o.Address != nil {
		addr := *o.Address
		out.Address = &addr
	}
	out.StatusTimestamps = o.StatusTimestamps.clone()
	return out
}

// OrderFilter narrows admin order listings. An empty Status matches every order.
type OrderFilter struct {
	Status OrderStatus
	Limit  int
	Page   int
}

// Offset converts the 1-based page into a row offset.
func (f OrderFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// OrderStats are the aggregates shown on the admin dashboard.
type OrderStats struct {
	Pending      int64   `json:"pending"`
	Confirmed    int64   `json:"confirmed"`
	Preparing    int64   `json:"preparing"`
	Ready        int64   `json:"ready"`
	TodayOrders  int64   `json:"today_orders"`
	TodayRevenue float64 `json:"today_revenue"`
	TotalOrders  int64   `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
}
