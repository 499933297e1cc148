// Package lifecycle implements the order status state machine.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"tasteofegypt/internal/models"
)

// ErrInvalidTransition is returned for any move the state machine does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// forward is the linear fulfilment pipeline.
var forward = map[models.OrderStatus]models.OrderStatus{
	models.StatusPending:   models.StatusConfirmed,
	models.StatusConfirmed: models.StatusPreparing,
	models.StatusPreparing: models.StatusReady,
	models.StatusReady:     models.StatusCompleted,
}

// CanTransition reports whether an order in from may move to to.
func CanTransition(from, to models.OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	if to == models.StatusCancelled {
		return from == models.StatusPending
	}
	next, ok := forward[from]
	return ok && next == to
}

// Start puts a freshly built order into its initial state.
func Start(order *models.Order, now time.Time) {
	order.Status = models.StatusPending
	order.PaymentStatus = models.PaymentPending
	order.StatusTimestamps = models.StatusTimestamps{}
	order.StatusTimestamps.Record(models.StatusPending, now)
}

// Apply moves order to target, stamping the entry time. Confirmation implies
// the e-transfer arrived, so payment becomes received. On error the order is
// left untouched.
func Apply(order *models.Order, target models.OrderStatus, now time.Time) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}
	if !CanTransition(order.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}
	if _, seen := order.StatusTimestamps.At(target); seen {
		return fmt.Errorf("%w: %s already entered", ErrInvalidTransition, target)
	}

	order.Status = target
	order.StatusTimestamps.Record(target, now)
	if target == models.StatusConfirmed {
		order.PaymentStatus = models.PaymentReceived
	}
	order.UpdatedAt = now
	return nil
}
