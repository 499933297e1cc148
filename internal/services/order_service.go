package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"

	"tasteofegypt/internal/lifecycle"
	"tasteofegypt/internal/models"
	"tasteofegypt/internal/pricing"
	"tasteofegypt/internal/repositories"
	"tasteofegypt/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	maxOrderIDAttempts = 3
	defaultPageSize    = 50
	maxPageSize        = 200
)

// CartLine is one entry of the customer's cart. Name and price are looked up
// from the menu, never taken from the client.
type CartLine struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1,max=99"`
}

// CheckoutRequest is what a customer submits to place an order.
type CheckoutRequest struct {
	Items         []CartLine       `json:"items" validate:"required,min=1,dive"`
	OrderType     models.OrderType `json:"order_type" validate:"required,oneof=delivery pickup"`
	Address       *models.Address  `json:"address" validate:"required_if=OrderType delivery"`
	Phone         string           `json:"phone" validate:"required,max=40"`
	Notes         string           `json:"notes" validate:"max=500"`
	ScheduledTime string           `json:"scheduled_time" validate:"max=64"`
}

// Notifier receives order changes after they are stored. Implementations must
// not block.
type Notifier interface {
	NotifyOrderCreated(order models.Order, customer models.User)
	NotifyStatusChanged(order models.Order, customer *models.User)
}

// OrderPage is one page of an admin order listing.
type OrderPage struct {
	Orders []models.Order `json:"orders"`
	Count  int            `json:"count"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Pages  int            `json:"pages"`
}

// OrderServiceDeps are the collaborators of an OrderService. Metrics may be nil.
type OrderServiceDeps struct {
	Orders   repositories.OrderRepository
	Users    repositories.UserRepository
	Menu     repositories.MenuRepository
	Pricing  *pricing.Engine
	Notifier Notifier
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orders   repositories.OrderRepository
	users    repositories.UserRepository
	menu     repositories.MenuRepository
	pricing  *pricing.Engine
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger

	validate *validator.Validate
	policy   *bluemonday.Policy
	now      func() time.Time
	newID    func(time.Time) string
}

// NewOrderService creates a new OrderService.
func NewOrderService(deps OrderServiceDeps) *OrderService {
	return &OrderService{
		orders:   deps.Orders,
		users:    deps.Users,
		menu:     deps.Menu,
		pricing:  deps.Pricing,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		validate: newValidator(),
		policy:   bluemonday.StrictPolicy(),
		now:      time.Now,
		newID:    NewOrderID,
	}
}

// CreateOrder prices the cart, stores a pending order and queues the
// confirmation messages. First-order eligibility is read from the stored
// customer.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	req = normalizeCheckout(req)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	customer, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// The token outlived its account.
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("customer %s: %w", userID, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to load customer %s: %w", userID, err)
	}

	items, err := s.snapshotItems(req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &models.Order{
		UserID:        customer.ID,
		Items:         items,
		OrderType:     req.OrderType,
		Address:       req.Address,
		Phone:         req.Phone,
		Notes:         s.sanitize(req.Notes),
		ScheduledTime: s.sanitize(req.ScheduledTime),
		Pricing:       s.pricing.Quote(items, req.OrderType, customer.IsFirstOrder),
		IsFirstOrder:  customer.IsFirstOrder,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	lifecycle.Start(order, now)

	if err := s.insert(ctx, order, now); err != nil {
		return nil, err
	}

	if order.IsFirstOrder {
		if err := s.users.ClearFirstOrderFlag(ctx, customer.ID); err != nil {
			s.logger.Error("failed to clear first-order flag",
				zap.String("user_id", customer.ID),
				zap.String("order_id", order.OrderID),
				zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.WithLabelValues(string(order.OrderType), strconv.FormatBool(order.IsFirstOrder)).Inc()
	}
	s.logger.Info("order created",
		zap.String("order_id", order.OrderID),
		zap.String("user_id", order.UserID),
		zap.Float64("total", order.Pricing.Total))

	s.notifier.NotifyOrderCreated(order.Clone(), *customer)
	return order, nil
}

func (s *OrderService) insert(ctx context.Context, order *models.Order, now time.Time) error {
	var err error
	for attempt := 0; attempt < maxOrderIDAttempts; attempt++ {
		order.OrderID = s.newID(now)
		err = s.orders.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("failed to store order: %w", err)
		}
		s.logger.Warn("order id collision, retrying", zap.String("order_id", order.OrderID))
	}
	return fmt.Errorf("failed to allocate a unique order id: %w", err)
}

func (s *OrderService) snapshotItems(lines []CartLine) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(lines))
	for i, line := range lines {
		menuItem, err := s.menu.GetByID(line.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrMenuItemNotFound) {
				return nil, newValidationError(fmt.Sprintf("items[%d].menu_item_id", i), "unknown menu item")
			}
			return nil, fmt.Errorf("failed to look up menu item %s: %w", line.MenuItemID, err)
		}
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
			Quantity:   line.Quantity,
		})
	}
	return items, nil
}

// normalizeCheckout trims the contact fields so blank values fail validation.
// The caller's address is copied, not modified.
func normalizeCheckout(req CheckoutRequest) CheckoutRequest {
	req.Phone = strings.TrimSpace(req.Phone)
	if req.OrderType == models.OrderTypePickup {
		req.Address = nil
	}
	if req.Address != nil {
		addr := *req.Address
		addr.Street = strings.TrimSpace(addr.Street)
		addr.City = strings.TrimSpace(addr.City)
		addr.PostalCode = strings.TrimSpace(addr.PostalCode)
		req.Address = &addr
	}
	return req
}

const maxSanitizePasses = 5

// sanitize strips markup from free text the kitchen and emails will show and
// returns it as plain text. Entity-encoded markup is decoded and stripped
// again until nothing changes.
func (s *OrderService) sanitize(text string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		plain := html.UnescapeString(s.policy.Sanitize(text))
		if plain == text {
			return strings.TrimSpace(plain)
		}
		text = plain
	}
	return strings.TrimSpace(s.policy.Sanitize(text))
}

// ChangeStatus moves an order to target. A concurrent change to the same
// order makes this call fail with ErrInvalidTransition.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID string, target models.OrderStatus) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Apply(order, target, s.now().UTC()); err != nil {
		s.observeTransition(target, "rejected")
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	if err := s.save(ctx, order, ErrInvalidTransition); err != nil {
		s.observeTransition(target, "rejected")
		return nil, err
	}
	s.observeTransition(target, "ok")

	s.logger.Info("order status changed",
		zap.String("order_id", order.OrderID),
		zap.String("status", string(order.Status)))
	s.notifier.NotifyStatusChanged(order.Clone(), s.lookupCustomer(ctx, order.UserID))
	return order, nil
}

// CancelOrder cancels a pending order on behalf of its owner.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, requesterID string) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrForbidden)
	}
	if order.Status != models.StatusPending {
		return nil, fmt.Errorf("order %s is %s, only pending orders can be cancelled: %w", orderID, order.Status, ErrInvalidState)
	}
	if err := lifecycle.Apply(order, models.StatusCancelled, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	if err := s.save(ctx, order, ErrInvalidTransition); err != nil {
		s.observeTransition(models.StatusCancelled, "rejected")
		return nil, err
	}
	s.observeTransition(models.StatusCancelled, "ok")

	s.logger.Info("order cancelled by customer", zap.String("order_id", order.OrderID))
	s.notifier.NotifyStatusChanged(order.Clone(), s.lookupCustomer(ctx, order.UserID))
	return order, nil
}

// ListCustomerOrders returns the customer's orders, newest first.
func (s *OrderService) ListCustomerOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetCustomerOrder returns one of the customer's own orders. Orders owned by
// someone else are reported as not found.
func (s *OrderService) GetCustomerOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return order, nil
}

// GetOrder returns any order by id.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.load(ctx, orderID)
}

// ListOrders returns one page of all orders, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, filter models.OrderFilter) (*OrderPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, newValidationError("status", fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &OrderPage{
		Orders: orders,
		Count:  len(orders),
		Total:  total,
		Page:   filter.Page,
		Pages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// Stats returns the dashboard aggregates. "Today" starts at local midnight.
func (s *OrderService) Stats(ctx context.Context) (models.OrderStats, error) {
	now := s.now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats, err := s.orders.Stats(ctx, since)
	if err != nil {
		return models.OrderStats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

func (s *OrderService) load(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	return order, nil
}

// save persists a transition. A lost compare-and-swap is reported as onStale.
func (s *OrderService) save(ctx context.Context, order *models.Order, onStale error) error {
	err := s.orders.Save(ctx, order)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrStaleOrder):
		return fmt.Errorf("order %s changed concurrently: %w", order.OrderID, onStale)
	case errors.Is(err, repositories.ErrOrderNotFound):
		return fmt.Errorf("order %s: %w", order.OrderID, ErrNotFound)
	default:
		return fmt.Errorf("failed to save order %s: %w", order.OrderID, err)
	}
}

func (s *OrderService) lookupCustomer(ctx context.Context, userID string) *models.User {
	customer, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("customer lookup failed, skipping status email",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil
	}
	return customer
}

func (s *OrderService) observeTransition(target models.OrderStatus, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.StatusTransitions.WithLabelValues(string(target), result).Inc()
}
