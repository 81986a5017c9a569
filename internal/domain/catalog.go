package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// CatalogItem is one drink on the menu
type CatalogItem struct {
	Name  string
	Price decimal.Decimal
}

// Category groups menu items under a heading shown to the customer
type Category struct {
	Name  string
	Items []CatalogItem
}

// Catalog is the read-only menu. Category and item order is preserved.
type Catalog struct {
	categories []Category
	index      map[string]int
}

// NewCatalog validates and copies the menu
func NewCatalog(categories []Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, errors.New("catalog must have at least one category")
	}

	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
	}

	for _, cat := range categories {
		if cat.Name == "" {
			return nil, errors.New("category name is required")
		}
		if _, dup := c.index[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		if len(cat.Items) == 0 {
			return nil, fmt.Errorf("category %q has no items", cat.Name)
		}

		seen := make(map[string]bool, len(cat.Items))
		items := make([]CatalogItem, 0, len(cat.Items))
		for _, item := range cat.Items {
			if item.Name == "" {
				return nil, fmt.Errorf("category %q: item name is required", cat.Name)
			}
			if seen[item.Name] {
				return nil, fmt.Errorf("category %q: duplicate item %q", cat.Name, item.Name)
			}
			if item.Price.IsNegative() {
				return nil, fmt.Errorf("category %q: item %q has negative price", cat.Name, item.Name)
			}
			seen[item.Name] = true
			items = append(items, item)
		}

		c.index[cat.Name] = len(c.categories)
		c.categories = append(c.categories, Category{Name: cat.Name, Items: items})
	}

	return c, nil
}

// Categories returns category names in menu order
func (c *Catalog) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

func (c *Catalog) HasCategory(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Items returns a copy of the items of a category
func (c *Catalog) Items(category string) ([]CatalogItem, error) {
	i, ok := c.index[category]
	if !ok {
		return nil, ErrUnknownCategory
	}
	items := make([]CatalogItem, len(c.categories[i].Items))
	copy(items, c.categories[i].Items)
	return items, nil
}

// FindItem looks an item up by exact name within one category
func (c *Catalog) FindItem(category, name string) (CatalogItem, error) {
	i, ok := c.index[category]
	if !ok {
		return CatalogItem{}, ErrUnknownCategory
	}
	for _, item := range c.categories[i].Items {
		if item.Name == name {
			return item, nil
		}
	}
	return CatalogItem{}, ErrUnknownItem
}
