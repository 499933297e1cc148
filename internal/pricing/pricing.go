// Package pricing computes order totals from a cart snapshot.
package pricing

import "tasteofegypt/internal/models"

// Config holds the restaurant-wide pricing constants.
type Config struct {
	TaxRate     float64 // e.g. 0.05 for 5% GST
	DeliveryFee float64 // flat fee for non-first delivery orders
}

// Engine prices carts. It is stateless apart from its configuration.
type Engine struct {
	cfg Config
}

// NewEngine creates a pricing Engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Quote returns the price breakdown for items. Tax applies to the subtotal
// only; the delivery fee is waived for pickup and for a customer's first order.
func (e *Engine) Quote(items []models.OrderItem, orderType models.OrderType, firstOrder bool) models.Pricing {
	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	deliveryFee := e.cfg.DeliveryFee
	if orderType == models.OrderTypePickup || firstOrder {
		deliveryFee = 0
	}

	tax := subtotal * e.cfg.TaxRate
	return models.Pricing{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Total:       subtotal + deliveryFee + tax,
	}
}
