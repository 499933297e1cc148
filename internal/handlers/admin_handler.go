package handlers

import (
	"fmt"

	"tasteofegypt/internal/models"
	"tasteofegypt/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHandler serves the operator dashboard.
type AdminHandler struct {
	orders *services.OrderService
	auth   *services.AuthService
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(orders *services.OrderService, auth *services.AuthService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		orders: orders,
		auth:   auth,
		logger: logger,
	}
}

// RegisterRoutes registers the admin routes behind guards, which must
// require an admin token.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	adminRoutes := router.Group("/admin", guards...)
	adminRoutes.Get("/orders", h.HandleListOrders)
	adminRoutes.Get("/orders/:id", h.HandleGetOrder)
	adminRoutes.Put("/orders/:id/status", h.HandleUpdateOrderStatus)
	adminRoutes.Get("/stats", h.HandleStats)
	adminRoutes.Get("/users", h.HandleListUsers)
}

// HandleListOrders lists all orders. ?status=all or no status matches every order.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	filter := models.OrderFilter{
		Limit: c.QueryInt("limit", 50),
		Page:  c.QueryInt("page", 1),
	}
	if status := c.Query("status"); status != "" && status != "all" {
		filter.Status = models.OrderStatus(status)
	}

	page, err := h.orders.ListOrders(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err, "Could not retrieve orders")
	}
	return c.JSON(page)
}

func (h *AdminHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Order not found")
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus moves an order along the fulfilment pipeline.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return badRequestBody(c, err)
	}
	if !updateData.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid status",
			"error":   fmt.Sprintf("unknown status %q", updateData.Status),
		})
	}

	order, err := h.orders.ChangeStatus(c.UserContext(), orderID, updateData.Status)
	if err != nil {
		return respondError(c, h.logger, err, "Could not update order status")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, order.Status),
		"order":   order,
	})
}

func (h *AdminHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.orders.Stats(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "Could not compute stats")
	}
	return c.JSON(stats)
}

// HandleListUsers lists customer accounts.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListCustomers(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "Could not retrieve users")
	}
	return c.JSON(users)
}
