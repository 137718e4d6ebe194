// Package model defines the organization network data model: organizations,
// the typed relationships connecting them, and the dataset document that
// holds one session's worth of both.
package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OrgType classifies an organization. It drives color and icon selection in
// every presentation, so the enumeration here is the canonical one.
type OrgType string

const (
	TypeCorporation   OrgType = "corporation"
	TypeEducation     OrgType = "education"
	TypeNonProfit     OrgType = "non_profit"
	TypeGovernment    OrgType = "government"
	TypeSmallBusiness OrgType = "small_business"
	TypeInvestor      OrgType = "investor"
	TypeCategory      OrgType = "category"
)

// OrgTypes lists all known types in display order.
var OrgTypes = []OrgType{
	TypeCorporation,
	TypeEducation,
	TypeNonProfit,
	TypeGovernment,
	TypeSmallBusiness,
	TypeInvestor,
	TypeCategory,
}

// typeAliases maps legacy type spellings found in older datasets onto the
// canonical enumeration.
var typeAliases = map[string]OrgType{
	"higher_ed":         TypeEducation,
	"higher_education":  TypeEducation,
	"government_agency": TypeGovernment,
	"investor_funder":   TypeInvestor,
	"nonprofit":         TypeNonProfit,
}

// NormalizeOrgType lowercases, trims, and resolves aliases. Unknown values
// pass through unchanged so they can still be rendered with a fallback color.
func NormalizeOrgType(raw string) OrgType {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := typeAliases[key]; ok {
		return canonical
	}
	return OrgType(key)
}

// Label returns a human-readable label for the type.
func (t OrgType) Label() string {
	switch t {
	case TypeCorporation:
		return "Corporation"
	case TypeEducation:
		return "Higher Education"
	case TypeNonProfit:
		return "Non-Profit"
	case TypeGovernment:
		return "Government Agency"
	case TypeSmallBusiness:
		return "Small Business"
	case TypeInvestor:
		return "Investor / Funder"
	case TypeCategory:
		return "Category"
	default:
		if t == "" {
			return "Unknown"
		}
		return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
	}
}

// Organization is a node in the network. The zero value is not valid; an
// organization always needs an ID and a name.
type Organization struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          OrgType  `json:"type"`
	ContactPerson string   `json:"contactPerson,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Website       string   `json:"website,omitempty"`
	Address       string   `json:"address,omitempty"`
	Description   string   `json:"description,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// Validate checks the minimal invariants for an organization record.
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("organization has empty id")
	}
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("organization %s has empty name", o.ID)
	}
	return nil
}

// HasTag reports whether the organization carries the given tag
// (case-insensitive). Absent tags are simply no match, never an error.
func (o *Organization) HasTag(tag string) bool {
	needle := strings.ToLower(tag)
	for _, t := range o.Tags {
		if strings.ToLower(t) == needle {
			return true
		}
	}
	return false
}

// SearchFields returns the fields a search term is matched against, in a
// stable order: name, contact person, email, description, address, then tags.
func (o *Organization) SearchFields() []string {
	fields := []string{o.Name, o.ContactPerson, o.Email, o.Description, o.Address}
	return append(fields, o.Tags...)
}

// MatchesSearch reports whether the lowercase term is a substring of any
// searchable field. An empty term matches everything.
func (o *Organization) MatchesSearch(lowerTerm string) bool {
	if lowerTerm == "" {
		return true
	}
	for _, f := range o.SearchFields() {
		if strings.Contains(strings.ToLower(f), lowerTerm) {
			return true
		}
	}
	return false
}
