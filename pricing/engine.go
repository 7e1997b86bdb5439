// Package pricing derives budget totals and the line-item summary from
// catalog snapshots. Everything here is a pure function of its inputs.
package pricing

import (
	"github.com/amerihn/conference-event-planner/catalog"
	"github.com/shopspring/decimal"
)

// Totals holds the per-category budget totals.
type Totals struct {
	Venue decimal.Decimal `json:"venue"`
	AV    decimal.Decimal `json:"av"`
	Meals decimal.Decimal `json:"meals"`
}

// Grand returns the sum of the three category totals.
func (t Totals) Grand() decimal.Decimal {
	return t.Venue.Add(t.AV).Add(t.Meals)
}

// Of returns the total of one category.
func (t Totals) Of(c catalog.Category) decimal.Decimal {
	switch c {
	case catalog.CategoryVenue:
		return t.Venue
	case catalog.CategoryAV:
		return t.AV
	case catalog.CategoryMeals:
		return t.Meals
	}
	return decimal.Zero
}

// Snapshot is a read-only view of the three catalogs plus the attendee count.
type Snapshot struct {
	Venue  []catalog.Item
	AV     []catalog.Item
	Meals  []catalog.Item
	People int
}

// MealMultiplier is the number of servings a selected meal is charged for.
// Every selected meal scales with the attendee count, whether or not it is
// flagged people-scaled.
func MealMultiplier(_ catalog.Item, people int) int {
	return people
}

// QuantityTotal sums cost × quantity over items.
func QuantityTotal(items []catalog.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(lineCost(it.Cost, it.Quantity))
	}
	return total
}

// MealTotal sums the cost of every selected meal for people attendees.
func MealTotal(meals []catalog.Item, people int) decimal.Decimal {
	total := decimal.Zero
	for _, it := range meals {
		if it.Selected {
			total = total.Add(lineCost(it.Cost, MealMultiplier(it, people)))
		}
	}
	return total
}

// Compute derives all category totals from a snapshot.
func Compute(s Snapshot) Totals {
	return Totals{
		Venue: QuantityTotal(s.Venue),
		AV:    QuantityTotal(s.AV),
		Meals: MealTotal(s.Meals, s.People),
	}
}

func lineCost(cost decimal.Decimal, n int) decimal.Decimal {
	return cost.Mul(decimal.NewFromInt(int64(n)))
}
