package handlers

import (
	"tasteofegypt/internal/models"
	"tasteofegypt/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MenuHandler serves the public catalog.
type MenuHandler struct {
	service *services.MenuService
	logger  *zap.Logger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(service *services.MenuService, logger *zap.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the menu routes with the Fiber app.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	menuRoutes := router.Group("/menu")
	menuRoutes.Get("/", h.HandleListMenu)
	menuRoutes.Get("/categories", h.HandleCategories)
	menuRoutes.Get("/:id", h.HandleGetMenuItem)
}

// HandleListMenu lists menu items, optionally by ?category= and ?popular=true.
func (h *MenuHandler) HandleListMenu(c *fiber.Ctx) error {
	filter := models.MenuFilter{
		Category:    c.Query("category"),
		PopularOnly: c.QueryBool("popular", false),
	}
	items, err := h.service.ListMenuItems(filter)
	if err != nil {
		return respondError(c, h.logger, err, "Could not retrieve menu")
	}
	return c.JSON(items)
}

func (h *MenuHandler) HandleCategories(c *fiber.Ctx) error {
	return c.JSON(h.service.Categories())
}

// HandleGetMenuItem retrieves a single menu item by its ID.
func (h *MenuHandler) HandleGetMenuItem(c *fiber.Ctx) error {
	item, err := h.service.GetMenuItem(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err, "Menu item not found")
	}
	return c.JSON(item)
}
