package planner

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amerihn/conference-event-planner/catalog"
	"github.com/amerihn/conference-event-planner/pricing"
	"github.com/shopspring/decimal"
)

// ErrInvalidPeopleCount is returned when the attendee count is below one.
var ErrInvalidPeopleCount = errors.New("planner: number of people must be at least 1")

// Summary is everything the summary screen renders.
type Summary struct {
	Totals    pricing.Totals     `json:"totals"`
	Grand     decimal.Decimal    `json:"grand"`
	LineItems []pricing.LineItem `json:"line_items"`
	People    int                `json:"people"`
	View      View               `json:"view"`
}

// State is the full editable state of a session.
type State struct {
	ID                string         `json:"session_id"`
	Venue             []catalog.Item `json:"venue"`
	AV                []catalog.Item `json:"av"`
	Meals             []catalog.Item `json:"meals"`
	RemainingCapacity int            `json:"remaining_capacity"`
	Summary
}

type memoKey struct {
	venue, av, meals uint64
	people           int
}

// Session is one budget being edited. All methods are safe for concurrent
// use; mutations are applied one at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	venue      *catalog.QuantityStore
	av         *catalog.QuantityStore
	meals      *catalog.SelectionStore
	people     int
	view       View
	lastActive time.Time

	memoAt  memoKey
	memo    *Summary
	memoHit int
}

// NewSession creates a session over freshly built stores.
func NewSession(id string, stores *catalog.Stores, people int) (*Session, error) {
	if people < 1 {
		return nil, ErrInvalidPeopleCount
	}
	now := time.Now()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		venue:      stores.Venue,
		av:         stores.AV,
		meals:      stores.Meals,
		people:     people,
		view:       ViewEditing,
		lastActive: now,
	}, nil
}

func (s *Session) quantityStore(c catalog.Category) (*catalog.QuantityStore, error) {
	switch c {
	case catalog.CategoryVenue:
		return s.venue, nil
	case catalog.CategoryAV:
		return s.av, nil
	}
	return nil, fmt.Errorf("planner: %q has no quantities", c)
}

// Increment adds one unit of the item at index in the venue or av catalog.
func (s *Session) Increment(c catalog.Category, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.quantityStore(c)
	if err != nil {
		return false, err
	}
	s.lastActive = time.Now()
	return st.Increment(index)
}

// Decrement removes one unit of the item at index in the venue or av catalog.
func (s *Session) Decrement(c catalog.Category, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.quantityStore(c)
	if err != nil {
		return false, err
	}
	s.lastActive = time.Now()
	return st.Decrement(index)
}

// ToggleMeal flips the meal at index. A people-scaled meal being selected
// records the current head count; being deselected records zero.
func (s *Session) ToggleMeal(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, err := s.meals.Item(index)
	if err != nil {
		return err
	}
	people := 0
	if !it.Selected {
		people = s.people
	}
	s.lastActive = time.Now()
	return s.meals.Toggle(index, people)
}

// SetPeople changes the attendee count. Selected meals follow the new count
// without being toggled again.
func (s *Session) SetPeople(n int) error {
	if n < 1 {
		return ErrInvalidPeopleCount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people = n
	s.lastActive = time.Now()
	return nil
}

// People returns the attendee count.
func (s *Session) People() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.people
}

// View returns the screen currently shown.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// ToggleView switches between the editing and summary screens.
func (s *Session) ToggleView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.toggled()
	s.lastActive = time.Now()
	return s.view
}

// Navigate jumps to a section of the editing screen, leaving the summary if
// it is shown.
func (s *Session) Navigate(section string) (View, error) {
	if _, err := ParseSection(section); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == ViewSummary {
		s.view = ViewEditing
	}
	s.lastActive = time.Now()
	return s.view, nil
}

// Reset clears every selection and returns to the editing screen. The
// attendee count is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venue.Reset()
	s.av.Reset()
	s.meals.Reset()
	s.view = ViewEditing
	s.lastActive = time.Now()
}

// Totals returns the per-category totals.
func (s *Session) Totals() pricing.Totals {
	return s.Summary().Totals
}

// LineItems returns the summary rows.
func (s *Session) LineItems() []pricing.LineItem {
	return s.Summary().LineItems
}

// Summary derives totals and line items from the current state. The result
// is reused until a store changes or the head count does.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

// State returns the catalogs along with the summary.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		ID:                s.ID,
		Venue:             s.venue.Items(),
		AV:                s.av.Items(),
		Meals:             s.meals.Items(),
		RemainingCapacity: s.remainingCapacityLocked(),
		Summary:           s.summaryLocked(),
	}
	return st
}

// RemainingCapacity is how many more capacity-limited rooms may be booked.
func (s *Session) RemainingCapacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingCapacityLocked()
}

// LastActive returns when the session was last mutated.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) remainingCapacityLocked() int {
	idx := s.venue.CapacityLimitedIndex()
	if idx < 0 {
		return 0
	}
	n, err := s.venue.Remaining(idx)
	if err != nil {
		return 0
	}
	return n
}

func (s *Session) summaryLocked() Summary {
	key := memoKey{
		venue:  s.venue.Version(),
		av:     s.av.Version(),
		meals:  s.meals.Version(),
		people: s.people,
	}
	if s.memo == nil || s.memoAt != key {
		snap := pricing.Snapshot{
			Venue:  s.venue.Items(),
			AV:     s.av.Items(),
			Meals:  s.meals.Items(),
			People: s.people,
		}
		totals := pricing.Compute(snap)
		s.memo = &Summary{
			Totals:    totals,
			Grand:     totals.Grand(),
			LineItems: pricing.Project(snap),
			People:    s.people,
		}
		s.memoAt = key
	} else {
		s.memoHit++
	}
	out := *s.memo
	out.LineItems = make([]pricing.LineItem, len(s.memo.LineItems))
	copy(out.LineItems, s.memo.LineItems)
	out.View = s.view
	return out
}
