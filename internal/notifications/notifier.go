package notifications

import (
	"context"
	"time"

	"tasteofegypt/internal/events"
	"tasteofegypt/internal/models"

	"go.uber.org/zap"
)

const (
	KindOrderConfirmation = "order_confirmation"
	KindStatusUpdate      = "status_update"
	KindAdminAlert        = "admin_alert"
	KindEvent             = "event"
)

// Notifier turns order changes into background tasks: customer and operator
// emails plus broker events.
type Notifier struct {
	mailer     Mailer
	formatter  *Formatter
	publisher  events.Publisher
	dispatcher *Dispatcher
	adminEmail string
	logger     *zap.Logger
	now        func() time.Time
}

// NotifierDeps are the collaborators of a Notifier. A nil Publisher drops events.
type NotifierDeps struct {
	Mailer     Mailer
	Formatter  *Formatter
	Publisher  events.Publisher
	Dispatcher *Dispatcher
	AdminEmail string
	Logger     *zap.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(deps NotifierDeps) *Notifier {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Notifier{
		mailer:     deps.Mailer,
		formatter:  deps.Formatter,
		publisher:  publisher,
		dispatcher: deps.Dispatcher,
		adminEmail: deps.AdminEmail,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// NotifyOrderCreated queues the customer confirmation, the operator alert and
// the order.created event.
func (n *Notifier) NotifyOrderCreated(order models.Order, customer models.User) {
	order = order.Clone()

	if msg, err := n.formatter.OrderConfirmation(order, customer); err != nil {
		n.formatFailed(KindOrderConfirmation, order.OrderID, err)
	} else {
		n.sendMail(KindOrderConfirmation, order.OrderID, msg)
	}

	if n.adminEmail != "" {
		if msg, err := n.formatter.AdminAlert(order, customer, n.adminEmail); err != nil {
			n.formatFailed(KindAdminAlert, order.OrderID, err)
		} else {
			n.sendMail(KindAdminAlert, order.OrderID, msg)
		}
	}

	n.publish(events.NewOrderEvent(events.OrderCreated, order, n.now()))
}

// NotifyStatusChanged queues the customer status email and the
// order.status_changed event. A nil customer skips the email.
func (n *Notifier) NotifyStatusChanged(order models.Order, customer *models.User) {
	order = order.Clone()

	if customer != nil {
		if msg, err := n.formatter.StatusUpdate(order, *customer); err != nil {
			n.formatFailed(KindStatusUpdate, order.OrderID, err)
		} else {
			n.sendMail(KindStatusUpdate, order.OrderID, msg)
		}
	}

	n.publish(events.NewOrderEvent(events.OrderStatusChanged, order, n.now()))
}

func (n *Notifier) sendMail(kind, orderID string, msg Message) {
	n.dispatcher.Submit(Task{
		Kind:    kind,
		OrderID: orderID,
		Run: func(ctx context.Context) error {
			return n.mailer.Send(ctx, msg)
		},
	})
}

func (n *Notifier) publish(evt events.Event) {
	n.dispatcher.Submit(Task{
		Kind:    KindEvent,
		OrderID: evt.OrderID,
		Run: func(ctx context.Context) error {
			return n.publisher.Publish(ctx, evt)
		},
	})
}

func (n *Notifier) formatFailed(kind, orderID string, err error) {
	n.logger.Error("failed to format notification",
		zap.String("kind", kind),
		zap.String("order_id", orderID),
		zap.Error(err))
}
