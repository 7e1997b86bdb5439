package catalog

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a mutation names an item that does not exist.
var ErrIndexOutOfRange = errors.New("catalog: index out of range")

// store is the state shared by both store types. It is not safe for
// concurrent use; callers serialize access.
type store struct {
	category Category
	seed     []Item
	items    []Item
	version  uint64
}

func newStore(c Category, seed []Item) store {
	s := store{category: c, seed: make([]Item, len(seed))}
	copy(s.seed, seed)
	s.items = make([]Item, len(seed))
	copy(s.items, seed)
	return s
}

// Category returns the catalog this store holds.
func (s *store) Category() Category { return s.category }

// Len returns the number of items.
func (s *store) Len() int { return len(s.items) }

// Version increases on every mutation that changed state.
func (s *store) Version() uint64 { return s.version }

// Items returns a copy of the current items.
func (s *store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the item at index.
func (s *store) Item(index int) (Item, error) {
	if err := s.check(index); err != nil {
		return Item{}, err
	}
	return s.items[index], nil
}

// Reset restores the seed state.
func (s *store) Reset() {
	copy(s.items, s.seed)
	s.version++
}

func (s *store) check(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %s[%d] (len %d)", ErrIndexOutOfRange, s.category, index, len(s.items))
	}
	return nil
}

// QuantityStore holds a venue or add-on catalog.
type QuantityStore struct {
	store
	limits Limits
}

// NewQuantityStore builds a store for the venue or add-on catalog.
// Quantities start at zero regardless of the seed. Zero limits take their
// defaults; negative ones are rejected.
func NewQuantityStore(c Category, seed []Item, limits Limits) (*QuantityStore, error) {
	if c != CategoryVenue && c != CategoryAV {
		return nil, fmt.Errorf("catalog: %q is not a quantity catalog", c)
	}
	limits = limits.WithDefaults()
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	items, err := normalize(c, seed)
	if err != nil {
		return nil, err
	}
	return &QuantityStore{store: newStore(c, items), limits: limits}, nil
}

// Increment adds one unit to the item at index. At the item's ceiling it does
// nothing and reports changed=false.
func (s *QuantityStore) Increment(index int) (changed bool, err error) {
	if err := s.check(index); err != nil {
		return false, err
	}
	it := &s.items[index]
	if limit, bounded := s.limits.ceiling(s.category, *it); bounded && it.Quantity >= limit {
		return false, nil
	}
	it.Quantity++
	s.version++
	return true, nil
}

// Decrement removes one unit from the item at index. At zero it does nothing.
func (s *QuantityStore) Decrement(index int) (changed bool, err error) {
	if err := s.check(index); err != nil {
		return false, err
	}
	it := &s.items[index]
	if it.Quantity <= 0 {
		return false, nil
	}
	it.Quantity--
	s.version++
	return true, nil
}

// Remaining returns how many more units of the item at index may be added,
// or -1 when it has no ceiling.
func (s *QuantityStore) Remaining(index int) (int, error) {
	if err := s.check(index); err != nil {
		return 0, err
	}
	it := s.items[index]
	limit, bounded := s.limits.ceiling(s.category, it)
	if !bounded {
		return -1, nil
	}
	return limit - it.Quantity, nil
}

// CapacityLimitedIndex returns the index of the capacity-limited item, or -1.
func (s *QuantityStore) CapacityLimitedIndex() int {
	for i, it := range s.items {
		if it.Kind == KindCapacityLimited {
			return i
		}
	}
	return -1
}

// SelectionStore holds the meal catalog.
type SelectionStore struct {
	store
}

// NewSelectionStore builds the meal store. Every item starts deselected.
func NewSelectionStore(seed []Item) (*SelectionStore, error) {
	items, err := normalize(CategoryMeals, seed)
	if err != nil {
		return nil, err
	}
	return &SelectionStore{store: newStore(CategoryMeals, items)}, nil
}

// Toggle flips the selection of the item at index. For people-scaled meals
// peopleCount is recorded for display; other meals ignore it.
func (s *SelectionStore) Toggle(index, peopleCount int) error {
	if err := s.check(index); err != nil {
		return err
	}
	it := &s.items[index]
	it.Selected = !it.Selected
	if it.Kind == KindPeopleScaled {
		it.PeopleCount = peopleCount
	}
	s.version++
	return nil
}

// normalize validates seed records for category c and returns a fresh copy
// with blank kinds defaulted and all selection state cleared.
func normalize(c Category, seed []Item) ([]Item, error) {
	out := make([]Item, 0, len(seed))
	names := make(map[string]struct{}, len(seed))
	capacityLimited := 0
	for i, it := range seed {
		if it.Name == "" {
			return nil, fmt.Errorf("catalog: %s[%d] has no name", c, i)
		}
		if _, dup := names[it.Name]; dup {
			return nil, fmt.Errorf("catalog: %s has duplicate item %q", c, it.Name)
		}
		names[it.Name] = struct{}{}
		if it.Cost.IsNegative() {
			return nil, fmt.Errorf("catalog: %s item %q has negative cost", c, it.Name)
		}
		if it.Kind == "" {
			it.Kind = defaultKind(c)
		}
		if !it.Kind.AllowedIn(c) {
			return nil, fmt.Errorf("catalog: kind %q not allowed in %s (item %q)", it.Kind, c, it.Name)
		}
		if it.Kind == KindCapacityLimited {
			capacityLimited++
		}
		it.Quantity, it.Selected, it.PeopleCount = 0, false, 0
		out = append(out, it)
	}
	if c == CategoryVenue && capacityLimited != 1 {
		return nil, fmt.Errorf("catalog: venue needs exactly one capacity-limited item, found %d", capacityLimited)
	}
	return out, nil
}
