package models

// MenuItem is a dish on the restaurant's fixed menu.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Popular     bool    `json:"popular,omitempty"`
	Vegetarian  bool    `json:"vegetarian,omitempty"`
}

// MenuCategory groups menu items for browsing.
type MenuCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MenuFilter narrows a menu listing. Category "all" or "" matches everything.
type MenuFilter struct {
	Category    string
	PopularOnly bool
}
