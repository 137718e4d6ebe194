package view

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/orgweave/orgweave/pkg/model"
)

// collator provides locale-aware, case-insensitive string ordering for the
// sort comparators. Collation is stateful in x/text, so access stays behind
// the package-level compare helper; FilterAndSort itself remains pure over
// its inputs.
var collator = collate.New(language.English, collate.IgnoreCase)

func compareStrings(a, b string) int {
	return collator.CompareString(a, b)
}

// FilterAndSort is the filter/sort engine: a pure function from the loaded
// organizations and the current view state to the ordered subset to display.
// The full result is recomputed on every call; there is no incremental
// diffing and no pagination.
//
// An organization passes the filter when the type filter is empty or equal to
// its type, and the search term is empty or a case-insensitive substring of
// any searchable field (name, contact person, email, description, address,
// or any tag). Sorting is stable: ties keep their relative input order.
func FilterAndSort(orgs []model.Organization, state *State) []model.Organization {
	out := make([]model.Organization, 0, len(orgs))
	for i := range orgs {
		if Matches(&orgs[i], state) {
			out = append(out, orgs[i])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return compareStrings(sortField(&out[i], state.SortKey), sortField(&out[j], state.SortKey)) < 0
	})

	return out
}

// Matches applies the filter predicate to a single organization.
func Matches(org *model.Organization, state *State) bool {
	if state.TypeFilter != "" && string(org.Type) != state.TypeFilter {
		return false
	}
	return org.MatchesSearch(state.SearchTerm)
}

func sortField(org *model.Organization, key SortKey) string {
	switch key {
	case SortByType:
		return string(org.Type)
	case SortByContact:
		return org.ContactPerson
	default:
		return org.Name
	}
}

// CountMessage renders the human-readable "showing K of N" line. The wording
// differs depending on whether any filter is active.
func CountMessage(shown, total int, filtered bool) string {
	if filtered {
		return fmt.Sprintf("Showing %d of %d organizations", shown, total)
	}
	return fmt.Sprintf("%d organizations", total)
}
