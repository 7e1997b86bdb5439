package catalog

// Category identifies which catalog an item or line belongs to.
type Category string

const (
	CategoryVenue Category = "venue"
	CategoryAV    Category = "av"
	CategoryMeals Category = "meals"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryVenue, CategoryAV, CategoryMeals:
		return true
	}
	return false
}

// Kind describes how an item's quantity or selection is bounded and priced.
type Kind string

const (
	// KindCapacityLimited is the single venue room with the low hard ceiling.
	KindCapacityLimited Kind = "capacity-limited"
	// KindBounded is an ordinary venue room.
	KindBounded Kind = "bounded"
	// KindUnbounded is an add-on with no upper quantity bound.
	KindUnbounded Kind = "unbounded"
	// KindPeopleScaled is a meal priced per attendee.
	KindPeopleScaled Kind = "people-scaled"
	// KindFlatSelected is a meal that is simply on or off.
	KindFlatSelected Kind = "flat-selected"
)

// AllowedIn reports whether items of kind k may appear in a catalog of category c.
func (k Kind) AllowedIn(c Category) bool {
	switch c {
	case CategoryVenue:
		return k == KindCapacityLimited || k == KindBounded
	case CategoryAV:
		return k == KindUnbounded
	case CategoryMeals:
		return k == KindPeopleScaled || k == KindFlatSelected
	}
	return false
}

// defaultKind is the kind assumed for seed records that leave it blank.
func defaultKind(c Category) Kind {
	switch c {
	case CategoryVenue:
		return KindBounded
	case CategoryAV:
		return KindUnbounded
	default:
		return KindFlatSelected
	}
}
