package lifecycle_test

import (
	"testing"
	"time"

	"tasteofegypt/internal/lifecycle"
	"tasteofegypt/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowed = map[[2]models.OrderStatus]bool{
	{models.StatusPending, models.StatusConfirmed}:   true,
	{models.StatusConfirmed, models.StatusPreparing}: true,
	{models.StatusPreparing, models.StatusReady}:     true,
	{models.StatusReady, models.StatusCompleted}:     true,
	{models.StatusPending, models.StatusCancelled}:   true,
}

// orderAt builds an order that has walked the pipeline up to status.
func orderAt(t *testing.T, status models.OrderStatus) models.Order {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var order models.Order
	lifecycle.Start(&order, base)
	if status == models.StatusPending {
		return order
	}
	if status == models.StatusCancelled {
		require.NoError(t, lifecycle.Apply(&order, models.StatusCancelled, base.Add(time.Minute)))
		return order
	}
	path := []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing, models.StatusReady, models.StatusCompleted}
	for i, s := range path {
		require.NoError(t, lifecycle.Apply(&order, s, base.Add(time.Duration(i+1)*time.Minute)))
		if s == status {
			break
		}
	}
	return order
}

func TestApply_CrossProduct(t *testing.T) {
	targets := append([]models.OrderStatus{"shipped", ""}, models.AllStatuses...)
	for _, from := range models.AllStatuses {
		for _, to := range targets {
			order := orderAt(t, from)
			before := order.Clone()

			err := lifecycle.Apply(&order, to, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
			if allowed[[2]models.OrderStatus{from, to}] {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, order.Status)
				_, ok := order.StatusTimestamps.At(to)
				assert.True(t, ok)
				assert.True(t, lifecycle.CanTransition(from, to))
			} else {
				require.ErrorIs(t, err, lifecycle.ErrInvalidTransition, "%s -> %s", from, to)
				assert.Equal(t, before, order, "order must be unchanged after %s -> %s", from, to)
				assert.False(t, lifecycle.CanTransition(from, to))
			}
		}
	}
}

func TestApply_PaymentCoupling(t *testing.T) {
	order := orderAt(t, models.StatusPending)
	require.NoError(t, lifecycle.Apply(&order, models.StatusConfirmed, time.Now()))
	assert.Equal(t, models.PaymentReceived, order.PaymentStatus)

	for _, s := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusCompleted} {
		require.NoError(t, lifecycle.Apply(&order, s, time.Now()))
		assert.Equal(t, models.PaymentReceived, order.PaymentStatus)
	}

	cancelled := orderAt(t, models.StatusPending)
	require.NoError(t, lifecycle.Apply(&cancelled, models.StatusCancelled, time.Now()))
	assert.Equal(t, models.PaymentPending, cancelled.PaymentStatus)
}

func TestApply_FullPipelineTimestamps(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var order models.Order
	lifecycle.Start(&order, start)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)

	path := []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing, models.StatusReady, models.StatusCompleted}
	for i, s := range path {
		require.NoError(t, lifecycle.Apply(&order, s, start.Add(time.Duration(i+1)*time.Minute)))
	}

	prev, ok := order.StatusTimestamps.At(models.StatusPending)
	require.True(t, ok)
	for _, s := range path {
		at, ok := order.StatusTimestamps.At(s)
		require.True(t, ok)
		assert.True(t, at.After(prev), "%s must be stamped after the previous status", s)
		prev = at
	}
	_, ok = order.StatusTimestamps.At(models.StatusCancelled)
	assert.False(t, ok)

	err := lifecycle.Apply(&order, models.StatusPending, start.Add(time.Hour))
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestApply_ReadyBackToPendingFails(t *testing.T) {
	order := orderAt(t, models.StatusReady)
	err := lifecycle.Apply(&order, models.StatusPending, time.Now())
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	assert.Equal(t, models.StatusReady, order.Status)
}
