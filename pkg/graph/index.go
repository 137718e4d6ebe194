// Package graph provides the relationship index over a loaded dataset: fast
// lookup of the relationships touching an organization, its one-hop
// neighborhood, and the detail view the list presentation renders. It also
// computes lightweight network insights used for node sizing.
package graph

import (
	"sort"

	"github.com/orgweave/orgweave/pkg/model"
)

// Index is a precomputed adjacency view of one dataset. It is built
// wholesale from a dataset and must be rebuilt (never patched) when the
// dataset is replaced; a stale index pointing at a previous dataset's
// organizations is the defect the store guards against.
type Index struct {
	orgsByID map[string]*model.Organization
	touching map[string][]*model.Relationship
	dataset  *model.Dataset
}

// NewIndex builds the relationship index for a dataset.
func NewIndex(ds *model.Dataset) *Index {
	idx := &Index{
		orgsByID: make(map[string]*model.Organization, len(ds.Organizations)),
		touching: make(map[string][]*model.Relationship, len(ds.Organizations)),
		dataset:  ds,
	}
	for i := range ds.Organizations {
		org := &ds.Organizations[i]
		idx.orgsByID[org.ID] = org
	}
	for i := range ds.Relationships {
		rel := &ds.Relationships[i]
		idx.touching[rel.Source] = append(idx.touching[rel.Source], rel)
		if rel.Target != rel.Source {
			idx.touching[rel.Target] = append(idx.touching[rel.Target], rel)
		}
	}
	return idx
}

// Dataset returns the dataset this index was built from.
func (idx *Index) Dataset() *model.Dataset {
	return idx.dataset
}

// Org returns the organization with the given id, or nil for a dangling
// reference.
func (idx *Index) Org(id string) *model.Organization {
	return idx.orgsByID[id]
}

// RelationshipsOf returns every relationship where the id appears as source
// or target. The result is symmetric: a relationship connecting A and B is
// in both RelationshipsOf(A) and RelationshipsOf(B).
func (idx *Index) RelationshipsOf(orgID string) []*model.Relationship {
	return idx.touching[orgID]
}

// ConnectedIDs returns the neighbor ids reachable via exactly one
// relationship hop from orgID. The selected id itself is not included.
// Dangling neighbor ids are included; highlight treats them like any other
// node so the placeholder endpoint dims and brightens with the rest.
func (idx *Index) ConnectedIDs(orgID string) map[string]bool {
	rels := idx.touching[orgID]
	connected := make(map[string]bool, len(rels))
	for _, rel := range rels {
		if other, ok := rel.OtherEnd(orgID); ok && other != orgID {
			connected[other] = true
		}
	}
	return connected
}

// Degree returns the number of relationships touching the organization.
// This is the "connections" count shown in the list presentation.
func (idx *Index) Degree(orgID string) int {
	return len(idx.touching[orgID])
}

// IDs returns all organization ids, sorted for deterministic iteration.
func (idx *Index) IDs() []string {
	ids := make([]string, 0, len(idx.orgsByID))
	for id := range idx.orgsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
