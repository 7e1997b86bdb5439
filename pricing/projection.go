package pricing

import (
	"fmt"
	"strconv"

	"github.com/amerihn/conference-event-planner/catalog"
	"github.com/shopspring/decimal"
)

// LineItem is one row of the budget summary.
type LineItem struct {
	Name        string           `json:"name"`
	Cost        decimal.Decimal  `json:"cost"`
	Quantity    int              `json:"quantity"`
	PeopleCount int              `json:"people_count,omitempty"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
	Category    catalog.Category `json:"category"`
	Label       string           `json:"label"`
}

// Project flattens the snapshot into summary rows: venue rooms, then add-ons,
// then meals, keeping catalog order within each group.
func Project(s Snapshot) []LineItem {
	items := make([]LineItem, 0, len(s.Venue)+len(s.AV)+len(s.Meals))

	for _, it := range s.Venue {
		if it.Quantity > 0 {
			items = append(items, quantityLine(it, catalog.CategoryVenue))
		}
	}
	for _, it := range s.AV {
		if it.Quantity > 0 && !contains(items, it.Name, catalog.CategoryAV) {
			items = append(items, quantityLine(it, catalog.CategoryAV))
		}
	}
	for _, it := range s.Meals {
		if !it.Selected {
			continue
		}
		qty := 1
		if it.Kind == catalog.KindPeopleScaled {
			qty = s.People
		}
		items = append(items, LineItem{
			Name:        it.Name,
			Cost:        it.Cost,
			Quantity:    qty,
			PeopleCount: s.People,
			Subtotal:    lineCost(it.Cost, MealMultiplier(it, s.People)),
			Category:    catalog.CategoryMeals,
			Label:       fmt.Sprintf("Meals for %d people", s.People),
		})
	}
	return items
}

// Sum adds up the subtotals of items.
func Sum(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal)
	}
	return total
}

func quantityLine(it catalog.Item, c catalog.Category) LineItem {
	return LineItem{
		Name:     it.Name,
		Cost:     it.Cost,
		Quantity: it.Quantity,
		Subtotal: lineCost(it.Cost, it.Quantity),
		Category: c,
		Label:    strconv.Itoa(it.Quantity),
	}
}

func contains(items []LineItem, name string, c catalog.Category) bool {
	for _, li := range items {
		if li.Name == name && li.Category == c {
			return true
		}
	}
	return false
}
