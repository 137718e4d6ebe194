package model

import (
	"fmt"
	"strings"
)

// Relationship is an edge between two organizations. Direction is preserved
// for display (source = "from", target = "to") unless the type reads as
// mutual, in which case presentations use symmetric wording.
type Relationship struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// mutualMarkers are the substrings that flag a relationship type as
// symmetric for display purposes.
var mutualMarkers = []string{"mutual", "collaboration", "partnership"}

// IsMutual reports whether the relationship type implies symmetry.
func (r *Relationship) IsMutual() bool {
	t := strings.ToLower(r.Type)
	for _, marker := range mutualMarkers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

// Touches reports whether the relationship has the given organization as
// either endpoint.
func (r *Relationship) Touches(orgID string) bool {
	return r.Source == orgID || r.Target == orgID
}

// OtherEnd returns the endpoint opposite to orgID. If orgID is not an
// endpoint, ok is false.
func (r *Relationship) OtherEnd(orgID string) (string, bool) {
	switch orgID {
	case r.Source:
		return r.Target, true
	case r.Target:
		return r.Source, true
	default:
		return "", false
	}
}

// Validate checks the minimal invariants for a relationship record.
func (r *Relationship) Validate() error {
	if strings.TrimSpace(r.Source) == "" || strings.TrimSpace(r.Target) == "" {
		return fmt.Errorf("relationship %q has an empty endpoint", r.Type)
	}
	return nil
}

// TypeLabel returns a human-readable label for the relationship type.
func (r *Relationship) TypeLabel() string {
	if r.Type == "" {
		return "related"
	}
	return strings.ReplaceAll(strings.ToLower(r.Type), "_", " ")
}
