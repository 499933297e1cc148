package repositories

import (
	"errors"

	"tasteofegypt/internal/models"
)

var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuRepository is read-only access to the restaurant's menu.
type MenuRepository interface {
	List(filter models.MenuFilter) ([]models.MenuItem, error)
	GetByID(id string) (*models.MenuItem, error)
	Categories() []models.MenuCategory
}
