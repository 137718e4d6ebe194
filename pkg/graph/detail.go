package graph

import (
	"fmt"

	"github.com/orgweave/orgweave/pkg/model"
)

// Direction classifies how a relationship relates to the focal organization
// of a detail view.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing" // focal org is the source
	DirectionIncoming Direction = "incoming" // focal org is the target
	DirectionMutual   Direction = "mutual"   // type implies symmetry
)

// RelatedEntry is one row of a detail view: a relationship together with the
// organization on its other end and the direction relative to the focal org.
type RelatedEntry struct {
	Organization *model.Organization
	Relationship *model.Relationship
	Direction    Direction
}

// Detail is the full detail view for one organization.
type Detail struct {
	Organization *model.Organization
	Related      []RelatedEntry
}

// ErrNotFound is returned by DetailView when the focal id itself is unknown.
type ErrNotFound struct{ ID string }

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("organization %q not found", e.ID)
}

// DetailView assembles the detail presentation for an organization: the
// record itself plus every resolvable related organization. Relationships
// whose other end is a dangling reference are excluded here; only the graph
// presentation renders those, with a placeholder endpoint.
func (idx *Index) DetailView(orgID string) (*Detail, error) {
	org := idx.orgsByID[orgID]
	if org == nil {
		return nil, ErrNotFound{ID: orgID}
	}

	rels := idx.touching[orgID]
	detail := &Detail{
		Organization: org,
		Related:      make([]RelatedEntry, 0, len(rels)),
	}
	for _, rel := range rels {
		otherID, _ := rel.OtherEnd(orgID)
		other := idx.orgsByID[otherID]
		if other == nil {
			// Dangling target: dropped from the list view per the error
			// model; the wire view still draws it as "Unknown".
			continue
		}
		detail.Related = append(detail.Related, RelatedEntry{
			Organization: other,
			Relationship: rel,
			Direction:    classifyDirection(rel, orgID),
		})
	}
	return detail, nil
}

func classifyDirection(rel *model.Relationship, focalID string) Direction {
	if rel.IsMutual() {
		return DirectionMutual
	}
	if rel.Source == focalID {
		return DirectionOutgoing
	}
	return DirectionIncoming
}

// Describe renders the one-line wording for a related entry. Mutual
// relationships use symmetric "between X and Y" wording; directed ones say
// who the connection runs to or from.
func (e RelatedEntry) Describe(focalName string) string {
	label := e.Relationship.TypeLabel()
	switch e.Direction {
	case DirectionMutual:
		return fmt.Sprintf("%s between %s and %s", label, focalName, e.Organization.Name)
	case DirectionOutgoing:
		return fmt.Sprintf("%s to %s", label, e.Organization.Name)
	default:
		return fmt.Sprintf("%s from %s", label, e.Organization.Name)
	}
}
