package ui

import (
	"fmt"
	"strings"

	"github.com/orgweave/orgweave/pkg/model"
)

// OrgItem wraps model.Organization to implement list.Item
type OrgItem struct {
	Org    model.Organization
	Degree int // Relationship count, shown in the list row
}

func (i OrgItem) Title() string {
	return i.Org.Name
}

func (i OrgItem) Description() string {
	parts := []string{i.Org.Type.Label()}
	if i.Org.ContactPerson != "" {
		parts = append(parts, i.Org.ContactPerson)
	}
	if i.Degree > 0 {
		parts = append(parts, fmt.Sprintf("%d connections", i.Degree))
	}
	return strings.Join(parts, " • ")
}

func (i OrgItem) FilterValue() string {
	var sb strings.Builder
	sb.WriteString(i.Org.Name)
	sb.WriteString(" ")
	sb.WriteString(string(i.Org.Type))

	if i.Org.ContactPerson != "" {
		sb.WriteString(" ")
		sb.WriteString(i.Org.ContactPerson)
	}
	if i.Org.Email != "" {
		sb.WriteString(" ")
		sb.WriteString(i.Org.Email)
	}
	if len(i.Org.Tags) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(i.Org.Tags, " "))
	}

	return sb.String()
}
