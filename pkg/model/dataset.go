package model

// UnknownLabel is the placeholder rendered for a relationship endpoint whose
// organization id does not exist in the dataset. Dangling references are
// tolerated everywhere; they must never crash a render.
const UnknownLabel = "Unknown"

// Dataset is a single loaded document of organizations and relationships.
// It is treated as read-only for the duration of a session and replaced
// wholesale on reload, never patched incrementally.
type Dataset struct {
	Organizations []Organization `json:"organizations"`
	Relationships []Relationship `json:"relationships"`
}

// OrgByID returns the organization with the given id, or nil.
func (d *Dataset) OrgByID(id string) *Organization {
	for i := range d.Organizations {
		if d.Organizations[i].ID == id {
			return &d.Organizations[i]
		}
	}
	return nil
}

// OrgName resolves an organization id to its display name, or UnknownLabel
// for a dangling reference.
func (d *Dataset) OrgName(id string) string {
	if org := d.OrgByID(id); org != nil {
		return org.Name
	}
	return UnknownLabel
}

// DanglingRefs returns the ids referenced by relationships that have no
// matching organization.
func (d *Dataset) DanglingRefs() []string {
	known := make(map[string]bool, len(d.Organizations))
	for i := range d.Organizations {
		known[d.Organizations[i].ID] = true
	}
	seen := make(map[string]bool)
	var missing []string
	for i := range d.Relationships {
		for _, end := range []string{d.Relationships[i].Source, d.Relationships[i].Target} {
			if !known[end] && !seen[end] {
				seen[end] = true
				missing = append(missing, end)
			}
		}
	}
	return missing
}

// TypeCounts returns how many organizations carry each type.
func (d *Dataset) TypeCounts() map[OrgType]int {
	counts := make(map[OrgType]int)
	for i := range d.Organizations {
		counts[d.Organizations[i].Type]++
	}
	return counts
}
