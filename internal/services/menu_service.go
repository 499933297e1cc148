package services

import (
	"errors"
	"fmt"

	"tasteofegypt/internal/models"
	"tasteofegypt/internal/repositories"
)

// MenuService handles read access to the catalog.
type MenuService struct {
	repo repositories.MenuRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.MenuRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// ListMenuItems returns the items matching filter.
func (s *MenuService) ListMenuItems(filter models.MenuFilter) ([]models.MenuItem, error) {
	return s.repo.List(filter)
}

// GetMenuItem retrieves a single item by id.
func (s *MenuService) GetMenuItem(id string) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(id)
	if errors.Is(err, repositories.ErrMenuItemNotFound) {
		return nil, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	return item, err
}

func (s *MenuService) Categories() []models.MenuCategory {
	return s.repo.Categories()
}
