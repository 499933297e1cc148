package notifications

import (
	"strings"
	"testing"

	"tasteofegypt/internal/config"
	"tasteofegypt/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRestaurant() config.RestaurantConfig {
	return config.RestaurantConfig{
		Name:           "Taste of Egypt YYC",
		Phone:          "(403) 555-0123",
		Address:        "123 Centre Street NW, Calgary, AB T2E 2R4",
		ETransferEmail: "pay@tasteofegyptyyc.ca",
	}
}

func testOrder() models.Order {
	return models.Order{
		OrderID: "ORD-1700000000000-K3ZQ",
		UserID:  "user-1",
		Items: []models.OrderItem{
			{MenuItemID: "koshary", Name: "Koshary", UnitPrice: 14.99, Quantity: 2},
			{MenuItemID: "fattah", Name: "Fattah", UnitPrice: 18.99, Quantity: 1},
		},
		OrderType: models.OrderTypeDelivery,
		Address:   &models.Address{Street: "1 Main St", City: "Calgary", PostalCode: "T2P 1J9"},
		Phone:     "403-555-9999",
		Pricing: models.Pricing{
			Subtotal:    48.97,
			DeliveryFee: 0,
			Tax:         2.4485,
			Total:       51.4185,
		},
		IsFirstOrder:  true,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
	}
}

func testCustomer() models.User {
	return models.User{ID: "user-1", Name: "Mona", Email: "mona@example.com"}
}

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter(testRestaurant())
	require.NoError(t, err)
	return f
}

func TestFormatter_OrderConfirmation(t *testing.T) {
	msg, err := newTestFormatter(t).OrderConfirmation(testOrder(), testCustomer())
	require.NoError(t, err)

	assert.Equal(t, "mona@example.com", msg.To)
	assert.Equal(t, "Order ORD-1700000000000-K3ZQ Received - Taste of Egypt YYC", msg.Subject)
	assert.Contains(t, msg.Text, "2 x Koshary: $29.98")
	assert.Contains(t, msg.Text, "FREE (first order)")
	assert.Contains(t, msg.Text, "Total: $51.42")
	assert.Contains(t, msg.Text, "pay@tasteofegyptyyc.ca")
	assert.Contains(t, msg.Text, "**ORD-1700000000000-K3ZQ** as the message/reference")
	assert.Contains(t, msg.HTML, "<h1>")
	assert.Contains(t, msg.HTML, "<li>")
}

func TestFormatter_OrderConfirmationPickupHasNoDeliveryLine(t *testing.T) {
	order := testOrder()
	order.OrderType = models.OrderTypePickup
	order.Address = nil

	msg, err := newTestFormatter(t).OrderConfirmation(order, testCustomer())
	require.NoError(t, err)
	assert.NotContains(t, msg.Text, "Delivery Fee")
	assert.NotContains(t, msg.Text, "Deliver To")
}

func TestFormatter_StatusUpdate(t *testing.T) {
	f := newTestFormatter(t)
	order := testOrder()
	order.Status = models.StatusConfirmed

	msg, err := f.StatusUpdate(order, testCustomer())
	require.NoError(t, err)
	assert.Equal(t, "Order ORD-1700000000000-K3ZQ - Confirmed", msg.Subject)
	assert.Contains(t, msg.Text, "Your order has been confirmed and payment received!")

	order.Status = models.StatusReady
	order.OrderType = models.OrderTypePickup
	msg, err = f.StatusUpdate(order, testCustomer())
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Your order is ready for pickup!")
	assert.Contains(t, msg.Text, "Pick up at 123 Centre Street NW")
}

func TestFormatter_AdminAlert(t *testing.T) {
	f := newTestFormatter(t)

	msg, err := f.AdminAlert(testOrder(), testCustomer(), "admin@tasteofegypt.ca")
	require.NoError(t, err)
	assert.Equal(t, "admin@tasteofegypt.ca", msg.To)
	assert.Equal(t, "New Order ORD-1700000000000-K3ZQ - $51.42", msg.Subject)
	assert.Contains(t, msg.Text, "FIRST ORDER - FREE DELIVERY")
	assert.Contains(t, msg.Text, "ASAP")
	assert.Contains(t, msg.Text, "mona@example.com")

	order := testOrder()
	order.OrderType = models.OrderTypePickup
	order.Address = nil
	order.IsFirstOrder = false
	order.ScheduledTime = "18:30"
	msg, err = f.AdminAlert(order, testCustomer(), "admin@tasteofegypt.ca")
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Customer will pick up")
	assert.Contains(t, msg.Text, "18:30")
	assert.NotContains(t, msg.Text, "FIRST ORDER")
}

func TestFormatter_CustomerTextStaysLiteral(t *testing.T) {
	f := newTestFormatter(t)
	customer := testCustomer()
	customer.Name = "[pay here](https://evil.example)"
	order := testOrder()
	order.Notes = "**urgent**\n# call <https://evil.example>"

	confirmation, err := f.OrderConfirmation(order, customer)
	require.NoError(t, err)
	alert, err := f.AdminAlert(order, customer, "admin@tasteofegypt.ca")
	require.NoError(t, err)

	for _, msg := range []Message{confirmation, alert} {
		assert.NotContains(t, msg.HTML, "<a ")
		assert.NotContains(t, msg.HTML, "href")
		assert.Contains(t, msg.HTML, "[pay here](https://evil.example)")
	}
	assert.NotContains(t, alert.HTML, "<strong>urgent</strong>")
	assert.Contains(t, alert.HTML, "**urgent**")
	assert.Equal(t, 1, strings.Count(alert.HTML, "<h1>"))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "Mona", escapeMarkdown("Mona"))
	assert.Equal(t, `\[x\](y) \*a\* \_b\_`, escapeMarkdown("[x](y) *a* _b_"))
	assert.Equal(t, "line one line two", escapeMarkdown("line one\nline two"))
}

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		status    models.OrderStatus
		orderType models.OrderType
		want      string
	}{
		{models.StatusPreparing, models.OrderTypeDelivery, "Your delicious Egyptian feast is now being prepared!"},
		{models.StatusReady, models.OrderTypeDelivery, "Your order is ready and out for delivery!"},
		{models.StatusReady, models.OrderTypePickup, "Your order is ready for pickup!"},
		{models.StatusCompleted, models.OrderTypePickup, "Thank you for dining with us! We hope you enjoyed your meal."},
		{models.StatusCancelled, models.OrderTypePickup, "Your order has been cancelled. If you have questions, please contact us."},
		{models.StatusPending, models.OrderTypePickup, "Your order status is now: pending"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status)+"_"+string(tt.orderType), func(t *testing.T) {
			got := StatusMessage(models.Order{Status: tt.status, OrderType: tt.orderType})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Preparing", StatusLabel(models.StatusPreparing))
	assert.Equal(t, "$2.45", Money(2.4485))
}
