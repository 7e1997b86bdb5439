package planner

import "errors"

// ErrUnknownSection is returned by Navigate for a section the page does not have.
var ErrUnknownSection = errors.New("planner: unknown section")

// View is which screen the planner is showing.
type View string

const (
	ViewEditing View = "editing"
	ViewSummary View = "summary"
)

// Section is a navigable part of the editing screen.
type Section string

const (
	SectionVenue  Section = "venue"
	SectionAddons Section = "addons"
	SectionMeals  Section = "meals"
)

// ParseSection accepts "venue", "addons" or "meals", with or without a leading '#'.
func ParseSection(s string) (Section, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	switch sec := Section(s); sec {
	case SectionVenue, SectionAddons, SectionMeals:
		return sec, nil
	}
	return "", ErrUnknownSection
}

func (v View) toggled() View {
	if v == ViewSummary {
		return ViewEditing
	}
	return ViewSummary
}
