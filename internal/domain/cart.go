package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CartLine is a snapshot of a catalog item taken when it was selected.
// Later catalog changes do not affect it.
type CartLine struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Cart is an ordered list of selected lines. The same name may appear
// more than once; each line is one unit.
type Cart []CartLine

// Add appends a snapshot of item
func (c *Cart) Add(item CatalogItem) {
	*c = append(*c, CartLine{Name: item.Name, Price: item.Price})
}

// RemoveAllByName drops every line named name and reports how many were removed
func (c *Cart) RemoveAllByName(name string) int {
	kept := (*c)[:0:0]
	removed := 0
	for _, line := range *c {
		if line.Name == name {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	*c = kept
	return removed
}

// Total sums the line prices. It is never cached.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Price)
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Clone returns an independent copy
func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Names returns distinct line names in first-seen order
func (c Cart) Names() []string {
	seen := make(map[string]bool, len(c))
	var names []string
	for _, line := range c {
		if seen[line.Name] {
			continue
		}
		seen[line.Name] = true
		names = append(names, line.Name)
	}
	return names
}

// Lines renders one "- name — price $" row per line
func (c Cart) Lines() string {
	rows := make([]string, len(c))
	for i, line := range c {
		rows[i] = fmt.Sprintf("- %s — %s $", line.Name, line.Price.StringFixed(2))
	}
	return strings.Join(rows, "\n")
}
