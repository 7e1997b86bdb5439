package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) *Stores {
	t.Helper()
	st, err := DefaultSeed().Build(DefaultLimits())
	require.NoError(t, err)
	return st
}

func TestVenueBoundedCeiling(t *testing.T) {
	st := newTestStores(t)
	for i := 0; i < 25; i++ {
		_, err := st.Venue.Increment(0)
		require.NoError(t, err)
	}
	it, _ := st.Venue.Item(0)
	assert.Equal(t, 10, it.Quantity)

	changed, err := st.Venue.Increment(0)
	require.NoError(t, err)
	assert.False(t, changed, "increment at ceiling must be a no-op")
}

func TestVenueCapacityLimited(t *testing.T) {
	st := newTestStores(t)
	idx := st.Venue.CapacityLimitedIndex()
	require.Equal(t, 1, idx)

	for i := 0; i < 3; i++ {
		changed, err := st.Venue.Increment(idx)
		require.NoError(t, err)
		assert.True(t, changed)
	}
	v := st.Venue.Version()

	changed, err := st.Venue.Increment(idx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, v, st.Venue.Version(), "blocked increment must not bump version")

	it, _ := st.Venue.Item(idx)
	assert.Equal(t, 3, it.Quantity)

	rem, err := st.Venue.Remaining(idx)
	require.NoError(t, err)
	assert.Equal(t, 0, rem)
}

func TestDecrementFloor(t *testing.T) {
	st := newTestStores(t)
	for _, s := range []*QuantityStore{st.Venue, st.AV} {
		changed, err := s.Decrement(0)
		require.NoError(t, err)
		assert.False(t, changed)
		it, _ := s.Item(0)
		assert.Equal(t, 0, it.Quantity, "%s must not go negative", s.Category())
	}

	_, _ = st.AV.Increment(2)
	_, _ = st.AV.Decrement(2)
	_, _ = st.AV.Decrement(2)
	it, _ := st.AV.Item(2)
	assert.Equal(t, 0, it.Quantity)
}

func TestAddOnUnbounded(t *testing.T) {
	st := newTestStores(t)
	for i := 0; i < 250; i++ {
		changed, err := st.AV.Increment(0)
		require.NoError(t, err)
		require.True(t, changed)
	}
	it, _ := st.AV.Item(0)
	assert.Equal(t, 250, it.Quantity)

	rem, err := st.AV.Remaining(0)
	require.NoError(t, err)
	assert.Equal(t, -1, rem)
}

func TestIndexOutOfRange(t *testing.T) {
	st := newTestStores(t)

	_, err := st.Venue.Increment(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = st.AV.Decrement(st.AV.Len())
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, st.Meals.Toggle(99, 1), ErrIndexOutOfRange)
	_, err = st.Venue.Item(42)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestToggleRoundTrip(t *testing.T) {
	st := newTestStores(t)

	require.NoError(t, st.Meals.Toggle(1, 0))
	it, _ := st.Meals.Item(1)
	assert.True(t, it.Selected)

	require.NoError(t, st.Meals.Toggle(1, 0))
	it, _ = st.Meals.Item(1)
	assert.False(t, it.Selected)
}

func TestTogglePeopleScaledRecordsCount(t *testing.T) {
	st := newTestStores(t)

	require.NoError(t, st.Meals.Toggle(2, 40))
	it, _ := st.Meals.Item(2)
	assert.Equal(t, KindPeopleScaled, it.Kind)
	assert.Equal(t, 40, it.PeopleCount)

	require.NoError(t, st.Meals.Toggle(2, 0))
	it, _ = st.Meals.Item(2)
	assert.Equal(t, 0, it.PeopleCount)

	// flat meals ignore the count
	require.NoError(t, st.Meals.Toggle(1, 40))
	it, _ = st.Meals.Item(1)
	assert.Zero(t, it.PeopleCount)
}

func TestResetRestoresSeed(t *testing.T) {
	st := newTestStores(t)
	_, _ = st.Venue.Increment(0)
	require.NoError(t, st.Meals.Toggle(0, 3))

	st.Venue.Reset()
	st.Meals.Reset()
	for _, it := range append(st.Venue.Items(), st.Meals.Items()...) {
		assert.False(t, it.Present(), it.Name)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	st := newTestStores(t)
	items := st.AV.Items()
	items[0].Quantity = 99
	it, _ := st.AV.Item(0)
	assert.Zero(t, it.Quantity)
}

func TestSeedValidation(t *testing.T) {
	room := func(name string, k Kind) Item { return Item{Name: name, Cost: decimal.NewFromInt(10), Kind: k} }

	cases := []struct {
		name string
		seed Seed
	}{
		{"no capacity-limited room", Seed{Venue: []Item{room("A", KindBounded)}}},
		{"two capacity-limited rooms", Seed{Venue: []Item{room("A", KindCapacityLimited), room("B", KindCapacityLimited)}}},
		{"duplicate name", Seed{Venue: []Item{room("A", KindCapacityLimited), room("A", KindBounded)}}},
		{"meal kind in venue", Seed{Venue: []Item{room("A", KindCapacityLimited), room("B", KindPeopleScaled)}}},
		{"negative cost", Seed{
			Venue: []Item{room("A", KindCapacityLimited)},
			AV:    []Item{{Name: "Mic", Cost: decimal.NewFromInt(-1)}},
		}},
		{"missing name", Seed{Venue: []Item{room("A", KindCapacityLimited)}, Meals: []Item{{Cost: decimal.Zero}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.seed.Validate())
			_, err := tc.seed.Build(DefaultLimits())
			assert.Error(t, err)
		})
	}
}

func TestSeedDefaultsKind(t *testing.T) {
	seed := Seed{
		Venue: []Item{{Name: "Hall", Kind: KindCapacityLimited}, {Name: "Room"}},
		AV:    []Item{{Name: "Mic"}},
		Meals: []Item{{Name: "Tea"}},
	}
	st, err := seed.Build(DefaultLimits())
	require.NoError(t, err)

	room, _ := st.Venue.Item(1)
	mic, _ := st.AV.Item(0)
	tea, _ := st.Meals.Item(0)
	assert.Equal(t, KindBounded, room.Kind)
	assert.Equal(t, KindUnbounded, mic.Kind)
	assert.Equal(t, KindFlatSelected, tea.Kind)
}

func TestSeedClearsState(t *testing.T) {
	seed := DefaultSeed()
	seed.Venue[0].Quantity = 7
	seed.Meals[0].Selected = true

	st, err := seed.Build(DefaultLimits())
	require.NoError(t, err)
	v, _ := st.Venue.Item(0)
	m, _ := st.Meals.Item(0)
	assert.Zero(t, v.Quantity)
	assert.False(t, m.Selected)
}

func TestCustomLimits(t *testing.T) {
	st, err := DefaultSeed().Build(Limits{CapacityLimited: 1, Bounded: 2})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, _ = st.Venue.Increment(1)
		_, _ = st.Venue.Increment(0)
	}
	hall, _ := st.Venue.Item(1)
	room, _ := st.Venue.Item(0)
	assert.Equal(t, 1, hall.Quantity)
	assert.Equal(t, 2, room.Quantity)
}

func TestNegativeLimitsRejected(t *testing.T) {
	for _, l := range []Limits{
		{CapacityLimited: -1, Bounded: 10},
		{CapacityLimited: 3, Bounded: -5},
	} {
		_, err := DefaultSeed().Build(l)
		assert.ErrorIs(t, err, ErrInvalidLimits, "limits %+v", l)
	}
}

func TestPartiallyZeroLimitsTakeDefaults(t *testing.T) {
	assert.Equal(t, Limits{CapacityLimited: 3, Bounded: 4}, Limits{Bounded: 4}.WithDefaults())
	assert.Equal(t, Limits{CapacityLimited: 2, Bounded: 10}, Limits{CapacityLimited: 2}.WithDefaults())

	st, err := DefaultSeed().Build(Limits{Bounded: 4})
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		_, _ = st.Venue.Increment(1)
		_, _ = st.Venue.Increment(0)
	}
	hall, _ := st.Venue.Item(1)
	room, _ := st.Venue.Item(0)
	assert.Equal(t, 3, hall.Quantity)
	assert.Equal(t, 4, room.Quantity)

	left, err := st.Venue.Remaining(1)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestKindAllowedIn(t *testing.T) {
	assert.True(t, KindCapacityLimited.AllowedIn(CategoryVenue))
	assert.False(t, KindUnbounded.AllowedIn(CategoryVenue))
	assert.True(t, KindUnbounded.AllowedIn(CategoryAV))
	assert.True(t, KindFlatSelected.AllowedIn(CategoryMeals))
	assert.False(t, KindBounded.AllowedIn(Category("other")))
	assert.False(t, Category("other").Valid())
	assert.True(t, CategoryMeals.Valid())
}
