package repositories

import (
	"fmt"

	"tasteofegypt/internal/models"
)

// StaticMenuRepository serves a fixed menu held in memory. It is never
// mutated after construction, so reads need no locking.
type StaticMenuRepository struct {
	items      map[string]models.MenuItem
	order      []string // display order
	categories []models.MenuCategory
}

// NewStaticMenuRepository creates a catalog from items and categories.
func NewStaticMenuRepository(items []models.MenuItem, categories []models.MenuCategory) *StaticMenuRepository {
	r := &StaticMenuRepository{
		items:      make(map[string]models.MenuItem, len(items)),
		categories: categories,
	}
	for _, item := range items {
		if _, dup := r.items[item.ID]; !dup {
			r.order = append(r.order, item.ID)
		}
		r.items[item.ID] = item
	}
	return r
}

// List returns the menu items matching filter in display order.
func (r *StaticMenuRepository) List(filter models.MenuFilter) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0, len(r.order))
	for _, id := range r.order {
		item := r.items[id]
		if filter.Category != "" && filter.Category != "all" && item.Category != filter.Category {
			continue
		}
		if filter.PopularOnly && !item.Popular {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByID returns a menu item by its ID.
func (r *StaticMenuRepository) GetByID(id string) (*models.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("menu item %s: %w", id, ErrMenuItemNotFound)
	}
	return &item, nil
}

// Categories returns the browsing categories.
func (r *StaticMenuRepository) Categories() []models.MenuCategory {
	out := make([]models.MenuCategory, len(r.categories))
	copy(out, r.categories)
	return out
}

// DefaultMenu is the restaurant's current menu.
func DefaultMenu() ([]models.MenuItem, []models.MenuCategory) {
	items := []models.MenuItem{
		{ID: "koshary", Name: "Koshary", Description: "Egypt's beloved national dish: rice, macaroni, lentils, chickpeas and crispy onions with spicy tomato sauce", Price: 14.99, Category: "mains", Image: "/images/koshary.jpg", Popular: true, Vegetarian: true},
		{ID: "fattah", Name: "Fattah", Description: "Festive dish of crispy bread, rice and tender meat in garlic vinegar sauce", Price: 18.99, Category: "mains", Image: "/images/fattah.jpg", Popular: true},
		{ID: "fattah-kawarae", Name: "Fattah with Kawarae", Description: "Classic fattah topped with slow-cooked lamb trotters", Price: 22.99, Category: "mains", Image: "/images/fattah_w_kawaarea.jpg"},
		{ID: "macarona-bechamel", Name: "Macarona Bechamel", Description: "Egyptian-style baked pasta with creamy bechamel and seasoned ground beef", Price: 16.99, Category: "mains", Image: "/images/macarona_bechamel.jpg", Popular: true},
		{ID: "golden-crunch", Name: "Golden Crunch Platter", Description: "Crispy fried chicken with Egyptian spices and tahini sauce", Price: 15.99, Category: "mains", Image: "/images/golden_crunch_.jpg"},
		{ID: "grilled-mix", Name: "Mixed Grill Platter", Description: "Grilled kebabs, kofta and chicken with rice and grilled vegetables", Price: 24.99, Category: "grills", Image: "/images/grilled_section_part_1.jpg", Popular: true},
		{ID: "mahshi-peppers", Name: "Mahshi Peppers", Description: "Bell peppers stuffed with seasoned rice, herbs and tomato sauce", Price: 13.99, Category: "vegetarian", Image: "/images/stuffed_vegetables_part_1.jpg", Vegetarian: true},
		{ID: "mahshi-zucchini", Name: "Mahshi Zucchini", Description: "Tender zucchini stuffed with herbed rice in tomato broth", Price: 13.99, Category: "vegetarian", Image: "/images/stuffed_vegetables_part_2.jpg", Vegetarian: true},
		{ID: "mahshi-eggplant", Name: "Mahshi Eggplant", Description: "Baby eggplants stuffed with spiced rice, slow-cooked in tomato sauce", Price: 14.99, Category: "vegetarian", Image: "/images/stuffed_vegetables_part_3.jpg", Vegetarian: true},
		{ID: "mahshi-grape-leaves", Name: "Stuffed Grape Leaves", Description: "Grape leaves wrapped around herbed rice with lemon", Price: 12.99, Category: "vegetarian", Image: "/images/stuffed_vegetables_part_4___5.jpg", Vegetarian: true},
		{ID: "mahshi-cabbage", Name: "Mahshi Cabbage Rolls", Description: "Cabbage leaves rolled with seasoned rice in tangy tomato broth", Price: 12.99, Category: "vegetarian", Image: "/images/stuffed_vegetables_part_4___5.jpg", Vegetarian: true},
	}
	categories := []models.MenuCategory{
		{ID: "all", Name: "All Items"},
		{ID: "mains", Name: "Main Dishes"},
		{ID: "grills", Name: "Grills"},
		{ID: "vegetarian", Name: "Vegetarian"},
	}
	return items, categories
}
