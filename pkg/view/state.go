// Package view holds the presentation-agnostic core of the viewer: the
// mutable view state, the pure filter/sort engine over it, and the opacity
// model that drives highlight-on-select. Render adapters (the TUI, the HTML
// export) consume this package; nothing here touches a screen.
package view

import "strings"

// SortKey selects the comparator used by FilterAndSort.
type SortKey int

const (
	SortByName SortKey = iota // default: organization name
	SortByType
	SortByContact
	numSortKeys // keep last, used for cycling
)

// String returns a human-readable label for the sort key.
func (k SortKey) String() string {
	switch k {
	case SortByType:
		return "Type"
	case SortByContact:
		return "Contact"
	default:
		return "Name"
	}
}

// Next returns the following sort key, wrapping around. Used by UI controls
// that cycle rather than pick.
func (k SortKey) Next() SortKey {
	return (k + 1) % numSortKeys
}

// ParseSortKey maps a user-supplied key name onto a SortKey. Unknown names
// fall back to the default name sort.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "type":
		return SortByType
	case "contact":
		return SortByContact
	default:
		return SortByName
	}
}

// Defaults for a fresh session.
const (
	DefaultNodeSize     = 10.0
	DefaultLinkDistance = 120.0
)

// State is the mutable record of current filter/sort/selection/display
// preferences. Each field has a single writer (one UI control); transitions
// go through the methods below so re-render triggering stays in one place.
// State never persists across sessions.
type State struct {
	SearchTerm    string // always stored lowercase
	TypeFilter    string // empty = no filter
	SortKey       SortKey
	SelectedID    string // empty = nothing selected/hovered
	LabelsVisible bool
	NodeSize      float64
	LinkDistance  float64
}

// NewState returns view state with session defaults.
func NewState() *State {
	return &State{
		SortKey:       SortByName,
		LabelsVisible: true,
		NodeSize:      DefaultNodeSize,
		LinkDistance:  DefaultLinkDistance,
	}
}

// SetSearchTerm lowercases and stores the term. Returns true if the state
// changed, so callers know whether a re-render is due.
func (s *State) SetSearchTerm(term string) bool {
	lowered := strings.ToLower(term)
	if s.SearchTerm == lowered {
		return false
	}
	s.SearchTerm = lowered
	return true
}

// SetTypeFilter stores the type filter; empty string clears it.
func (s *State) SetTypeFilter(t string) bool {
	if s.TypeFilter == t {
		return false
	}
	s.TypeFilter = t
	return true
}

// SetSortKey stores the sort key.
func (s *State) SetSortKey(k SortKey) bool {
	if s.SortKey == k {
		return false
	}
	s.SortKey = k
	return true
}

// ClearFilters resets search term, type filter, and sort key to defaults as
// one transition: all three change before the caller's single re-render.
func (s *State) ClearFilters() {
	s.SearchTerm = ""
	s.TypeFilter = ""
	s.SortKey = SortByName
}

// HasActiveFilters reports whether any filter narrows the displayed set.
func (s *State) HasActiveFilters() bool {
	return s.SearchTerm != "" || s.TypeFilter != ""
}

// ToggleLabels flips label visibility. Filtering is unaffected; only label
// opacity changes.
func (s *State) ToggleLabels() {
	s.LabelsVisible = !s.LabelsVisible
}

// SelectNode records the selected (or hovered) organization id. Selection
// drives highlighting in the graph presentation and the detail overlay in
// the list presentation; the two presentations share this one field but
// never trigger each other.
func (s *State) SelectNode(id string) {
	s.SelectedID = id
}

// DeselectNode clears the selection, returning all opacities to rest.
func (s *State) DeselectNode() {
	s.SelectedID = ""
}
