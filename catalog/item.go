package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidLimits is returned for a negative venue ceiling.
var ErrInvalidLimits = errors.New("catalog: invalid venue limits")

// Item is one entry of a catalog together with its current selection state.
type Item struct {
	Name     string          `json:"name"            mapstructure:"name"`
	Cost     decimal.Decimal `json:"cost"            mapstructure:"cost"`
	Image    string          `json:"img,omitempty"   mapstructure:"img"`
	Kind     Kind            `json:"kind"            mapstructure:"kind"`
	Quantity int             `json:"quantity"        mapstructure:"-"`
	Selected bool            `json:"selected"        mapstructure:"-"`
	// PeopleCount is what the caller passed when a people-scaled meal was toggled.
	// Pricing never reads it.
	PeopleCount int `json:"people_count,omitempty" mapstructure:"-"`
}

// Present reports whether the item contributes to a budget.
func (it Item) Present() bool {
	return it.Quantity > 0 || it.Selected
}

// Limits holds the quantity ceilings of the venue catalog.
type Limits struct {
	CapacityLimited int `mapstructure:"capacity_limit" json:"capacity_limit"`
	Bounded         int `mapstructure:"venue_limit" json:"venue_limit"`
}

// DefaultLimits returns the standard venue ceilings.
func DefaultLimits() Limits {
	return Limits{CapacityLimited: 3, Bounded: 10}
}

// WithDefaults fills each zero ceiling from DefaultLimits.
func (l Limits) WithDefaults() Limits {
	def := DefaultLimits()
	if l.CapacityLimited == 0 {
		l.CapacityLimited = def.CapacityLimited
	}
	if l.Bounded == 0 {
		l.Bounded = def.Bounded
	}
	return l
}

// Validate rejects negative ceilings.
func (l Limits) Validate() error {
	if l.CapacityLimited < 0 {
		return fmt.Errorf("%w: capacity_limit %d", ErrInvalidLimits, l.CapacityLimited)
	}
	if l.Bounded < 0 {
		return fmt.Errorf("%w: venue_limit %d", ErrInvalidLimits, l.Bounded)
	}
	return nil
}

// ceiling returns the maximum quantity for it in category c; bounded is
// false for items without one.
func (l Limits) ceiling(c Category, it Item) (limit int, bounded bool) {
	if c != CategoryVenue {
		return 0, false
	}
	if it.Kind == KindCapacityLimited {
		return l.CapacityLimited, true
	}
	return l.Bounded, true
}
