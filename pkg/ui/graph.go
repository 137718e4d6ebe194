package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/orgweave/orgweave/pkg/graph"
	"github.com/orgweave/orgweave/pkg/model"
	"github.com/orgweave/orgweave/pkg/view"
)

// renderGraphView draws the connection-focused pane: the selected
// organization in the center with its neighbors grouped by direction, plus a
// metrics panel. Unconnected organizations are listed dimmed below, mirroring
// the opacity model the HTML export uses.
func (m Model) renderGraphView(width, height int, t Theme) string {
	snap := m.snapshot()

	if m.state.SelectedID == "" {
		return t.Renderer.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(t.Secondary).
			Render("No organization selected\n\nenter: select • tab: back to list")
	}

	focal := snap.Index.Org(m.state.SelectedID)
	if focal == nil {
		return t.Renderer.NewStyle().
			Foreground(t.Secondary).
			Render("Selected organization no longer exists")
	}

	detail, err := snap.Index.DetailView(focal.ID)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	var incoming, outgoing, mutual []graph.RelatedEntry
	for _, entry := range detail.Related {
		switch entry.Direction {
		case graph.DirectionIncoming:
			incoming = append(incoming, entry)
		case graph.DirectionOutgoing:
			outgoing = append(outgoing, entry)
		default:
			mutual = append(mutual, entry)
		}
	}

	var sections []string

	if len(incoming) > 0 {
		sections = append(sections, m.renderNeighborRow("▼ INCOMING", incoming, width, t))
		sections = append(sections, m.renderConnector(len(incoming), width, t))
	}

	sections = append(sections, m.renderFocalNode(focal, snap.Index.Degree(focal.ID), width, t))

	if len(outgoing) > 0 {
		sections = append(sections, m.renderConnector(len(outgoing), width, t))
		sections = append(sections, m.renderNeighborRow("▼ OUTGOING", outgoing, width, t))
	}
	if len(mutual) > 0 {
		sections = append(sections, "")
		sections = append(sections, m.renderNeighborRow("◆ MUTUAL", mutual, width, t))
	}

	sections = append(sections, "")
	sections = append(sections, m.renderMetricsPanel(focal.ID, width, t))

	if rest := m.renderUnconnected(focal.ID, width, t); rest != "" {
		sections = append(sections, "")
		sections = append(sections, rest)
	}

	navStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	sections = append(sections, "")
	sections = append(sections, navStyle.Render("↑/↓: navigate • enter: details • tab: back to list"))

	return strings.Join(sections, "\n")
}

// renderNeighborRow renders one direction group as a row of boxes.
func (m Model) renderNeighborRow(header string, entries []graph.RelatedEntry, width int, t Theme) string {
	headerStyle := t.Renderer.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Width(width).
		Align(lipgloss.Center)

	maxBoxes := 5
	if len(entries) < maxBoxes {
		maxBoxes = len(entries)
	}
	if maxBoxes < 1 {
		maxBoxes = 1
	}
	boxWidth := (width - 4) / maxBoxes
	if boxWidth > 22 {
		boxWidth = 22
	}
	if boxWidth < 12 {
		boxWidth = 12
	}
	if boxWidth > width-2 {
		boxWidth = width - 2
	}

	var boxes []string
	for i, entry := range entries {
		if i >= 5 {
			boxes = append(boxes, t.Renderer.NewStyle().
				Foreground(t.Secondary).
				Italic(true).
				Render(fmt.Sprintf("+%d more", len(entries)-5)))
			break
		}
		boxes = append(boxes, m.renderNodeBox(entry, boxWidth, t))
	}

	boxRow := lipgloss.JoinHorizontal(lipgloss.Center, boxes...)
	centered := t.Renderer.NewStyle().Width(width).Align(lipgloss.Center).Render(boxRow)

	return headerStyle.Render(header) + "\n" + centered
}

// renderNodeBox renders one neighbor box colored by organization type.
func (m Model) renderNodeBox(entry graph.RelatedEntry, boxWidth int, t Theme) string {
	org := entry.Organization
	icon, color := t.TypeIcon(org.Type)

	name := truncate(icon+" "+org.Name, boxWidth-4)
	relType := truncate(entry.Relationship.TypeLabel(), boxWidth-4)

	style := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Foreground(color).
		Width(boxWidth - 2).
		Align(lipgloss.Center)

	return style.Render(name + "\n" + t.MutedText.Render(relType))
}

// renderFocalNode renders the selected organization in a prominent box.
func (m Model) renderFocalNode(org *model.Organization, degree int, width int, t Theme) string {
	color := t.TypeColor(org.Type)

	title := org.Name
	if m.isHub(org.ID) {
		title = t.HubMarker.Render("★") + " " + title
	}

	icon, _ := t.TypeIcon(org.Type)
	var lines []string
	lines = append(lines, title)
	lines = append(lines, t.SecondaryText.Render(icon+" "+org.Type.Label()))
	if org.ContactPerson != "" {
		lines = append(lines, t.MutedText.Render(org.ContactPerson))
	}
	lines = append(lines, t.MutedText.Render(fmt.Sprintf("%d connections", degree)))

	boxWidth := width - 8
	if boxWidth > 48 {
		boxWidth = 48
	}
	if boxWidth < 16 {
		boxWidth = 16
	}

	box := t.Renderer.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Bold(true).
		Padding(0, 1).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))

	return t.Renderer.NewStyle().Width(width).Align(lipgloss.Center).Render(box)
}

// isHub reports whether the organization is the most connected in the network.
func (m Model) isHub(id string) bool {
	ins := m.snapshot().Insights
	if ins == nil {
		return false
	}
	top := ins.TopByDegree(1)
	return len(top) == 1 && top[0] == id && ins.Degree[id] > 0
}

// renderConnector draws vertical connector lines between a neighbor row and
// the focal box.
func (m Model) renderConnector(count int, width int, t Theme) string {
	if count > 5 {
		count = 5
	}
	connector := strings.TrimRight(strings.Repeat("│   ", count), " ")
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Width(width).
		Align(lipgloss.Center).
		Render(connector)
}

// renderMetricsPanel shows derived network statistics for the focal node.
func (m Model) renderMetricsPanel(id string, width int, t Theme) string {
	snap := m.snapshot()
	ins := snap.Insights
	if ins == nil {
		return ""
	}

	rows := []string{
		fmt.Sprintf("%s %d", padRight("Connections:", 16), ins.Degree[id]),
		fmt.Sprintf("%s %.3f", padRight("Betweenness:", 16), ins.Betweenness[id]),
		fmt.Sprintf("%s %d orgs, %d links, %d clusters", padRight("Network:", 16),
			ins.NodeCount, ins.EdgeCount, ins.Components),
		fmt.Sprintf("%s %.3f", padRight("Density:", 16), ins.Density),
	}

	panel := t.Renderer.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Render(t.PrimaryBold.Render("Metrics") + "\n" + strings.Join(rows, "\n"))

	return t.Renderer.NewStyle().Width(width).Align(lipgloss.Center).Render(panel)
}

// renderUnconnected lists filtered-in organizations outside the selection's
// neighborhood, rendered faint the way the wire view dims them.
func (m Model) renderUnconnected(focalID string, width int, t Theme) string {
	snap := m.snapshot()
	connected := snap.Index.ConnectedIDs(focalID)

	orgs := view.FilterAndSort(snap.Dataset.Organizations, m.state)
	var names []string
	overflow := 0
	for _, org := range orgs {
		if org.ID == focalID || connected[org.ID] {
			continue
		}
		if len(names) >= 12 {
			overflow++
			continue
		}
		names = append(names, org.Name)
	}
	if len(names) == 0 {
		return ""
	}
	if overflow > 0 {
		names = append(names, fmt.Sprintf("+%d more", overflow))
	}

	return t.Dimmed.Render(truncate("Elsewhere: "+strings.Join(names, ", "), width))
}
