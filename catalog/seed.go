package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Seed is the static content of all three catalogs, in display order.
type Seed struct {
	Venue []Item `json:"venue" mapstructure:"venue"`
	AV    []Item `json:"av"    mapstructure:"av"`
	Meals []Item `json:"meals" mapstructure:"meals"`
}

// Empty reports whether the seed carries no items at all.
func (s Seed) Empty() bool {
	return len(s.Venue) == 0 && len(s.AV) == 0 && len(s.Meals) == 0
}

// Validate checks every catalog of the seed without building stores.
func (s Seed) Validate() error {
	for c, items := range map[Category][]Item{
		CategoryVenue: s.Venue,
		CategoryAV:    s.AV,
		CategoryMeals: s.Meals,
	} {
		if _, err := normalize(c, items); err != nil {
			return err
		}
	}
	return nil
}

// Stores holds one freshly seeded store per catalog.
type Stores struct {
	Venue *QuantityStore
	AV    *QuantityStore
	Meals *SelectionStore
}

// Build creates fresh stores from the seed: all quantities zero, nothing selected.
func (s Seed) Build(limits Limits) (*Stores, error) {
	venue, err := NewQuantityStore(CategoryVenue, s.Venue, limits)
	if err != nil {
		return nil, fmt.Errorf("venue: %w", err)
	}
	av, err := NewQuantityStore(CategoryAV, s.AV, limits)
	if err != nil {
		return nil, fmt.Errorf("av: %w", err)
	}
	meals, err := NewSelectionStore(s.Meals)
	if err != nil {
		return nil, fmt.Errorf("meals: %w", err)
	}
	return &Stores{Venue: venue, AV: av, Meals: meals}, nil
}

// DefaultSeed returns the built-in BudgetEase catalogs.
func DefaultSeed() Seed {
	item := func(name string, cost int64, img string, kind Kind) Item {
		return Item{Name: name, Cost: decimal.NewFromInt(cost), Image: img, Kind: kind}
	}
	return Seed{
		Venue: []Item{
			item("Conference Room (Capacity:15)", 3500, "img/conference-room.jpg", KindBounded),
			item("Auditorium Hall (Capacity:200)", 5500, "img/auditorium-hall.jpg", KindCapacityLimited),
			item("Presentation Room (Capacity:50)", 700, "img/presentation-room.jpg", KindBounded),
			item("Large Meeting Room (Capacity:10)", 900, "img/large-meeting-room.jpg", KindBounded),
			item("Small Meeting Room (Capacity:5)", 1100, "img/small-meeting-room.jpg", KindBounded),
		},
		AV: []Item{
			item("Projectors", 200, "img/projector.jpg", KindUnbounded),
			item("Speaker", 35, "img/speaker.jpg", KindUnbounded),
			item("Microphones", 45, "img/microphone.jpg", KindUnbounded),
			item("Whiteboards", 80, "img/whiteboard.jpg", KindUnbounded),
			item("Signage", 80, "img/signage.jpg", KindUnbounded),
		},
		Meals: []Item{
			item("Breakfast", 50, "", KindPeopleScaled),
			item("High Tea", 25, "", KindFlatSelected),
			item("Lunch", 65, "", KindPeopleScaled),
			item("Dinner", 70, "", KindPeopleScaled),
		},
	}
}
