// Package export renders the organization network to shareable artifacts: a
// self-contained interactive HTML page, static SVG/PNG snapshots, and a
// bundle combining all of them.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/orgweave/orgweave/pkg/graph"
	"github.com/orgweave/orgweave/pkg/model"
	"github.com/orgweave/orgweave/pkg/view"
)

// Highlight opacities used by the interactive page. They mirror the values
// the view package defines so both presentations dim identically.
const (
	htmlOpacityFull     = view.OpacityFull
	htmlOpacityDimmed   = view.OpacityDimmed
	htmlOpacityEdgeRest = view.OpacityEdgeRest
)

// HTMLOptions configures interactive HTML generation
type HTMLOptions struct {
	Dataset  *model.Dataset
	Insights *graph.Insights
	Title    string
	Path     string // Output path - if empty, auto-generates
	// DataURL, when set, enables a Refresh button that re-fetches the dataset
	// from this URL with a cache-busting query parameter. Used by serve mode.
	DataURL string
	// Force simulation tuning. Zero values fall back to defaults.
	LinkDistance    float64
	ChargeStrength  float64
	CollisionRadius float64
	NodeSize        float64
	LabelsVisible   bool
}

// orgNode is a node in the exported graph
type orgNode struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Label   string   `json:"typeLabel"`
	Contact string   `json:"contactPerson,omitempty"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Website string   `json:"website,omitempty"`
	Desc    string   `json:"description,omitempty"`
	Address string   `json:"address,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Degree  int      `json:"degree"`
	Unknown bool     `json:"unknown,omitempty"`
}

// orgLink is an edge in the exported graph
type orgLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Desc   string `json:"description,omitempty"`
	Mutual bool   `json:"mutual"`
}

// typeHex maps organization types to export colors.
var typeHex = map[model.OrgType]string{
	model.TypeCorporation:   "#4C9AFF",
	model.TypeEducation:     "#BD93F9",
	model.TypeNonProfit:     "#50FA7B",
	model.TypeGovernment:    "#FF5555",
	model.TypeSmallBusiness: "#8BE9FD",
	model.TypeInvestor:      "#FFB86C",
	model.TypeCategory:      "#6272A4",
}

const unknownHex = "#999999"

// TypeHex returns the export color for a type, with a gray fallback for
// unknown types.
func TypeHex(t model.OrgType) string {
	if hex, ok := typeHex[t]; ok {
		return hex
	}
	return unknownHex
}

// GenerateHTMLFilename creates an auto-generated filename
// Format: {name}_network__as_of__YYYY_MM_DD__HH_MM.html
func GenerateHTMLFilename(name string) string {
	now := time.Now()
	safeName := strings.ReplaceAll(name, " ", "_")
	safeName = strings.ReplaceAll(safeName, "/", "_")
	if safeName == "" {
		safeName = "network"
	}
	return fmt.Sprintf("%s_network__as_of__%s__%s.html",
		safeName, now.Format("2006_01_02"), now.Format("15_04"))
}

// buildGraphData assembles nodes and links from a dataset. Dangling
// relationship endpoints become placeholder nodes named "Unknown" so every
// edge has two drawable ends.
func buildGraphData(ds *model.Dataset, ins *graph.Insights) ([]orgNode, []orgLink) {
	nodes := make([]orgNode, 0, len(ds.Organizations))
	known := make(map[string]bool, len(ds.Organizations))

	degree := map[string]int{}
	if ins != nil {
		degree = ins.Degree
	}

	for _, org := range ds.Organizations {
		known[org.ID] = true
		nodes = append(nodes, orgNode{
			ID:      org.ID,
			Name:    org.Name,
			Type:    string(org.Type),
			Label:   org.Type.Label(),
			Contact: org.ContactPerson,
			Email:   org.Email,
			Phone:   org.Phone,
			Website: org.Website,
			Desc:    org.Description,
			Address: org.Address,
			Tags:    org.Tags,
			Degree:  degree[org.ID],
		})
	}

	placeholders := make(map[string]bool)
	links := make([]orgLink, 0, len(ds.Relationships))
	for _, rel := range ds.Relationships {
		for _, end := range []string{rel.Source, rel.Target} {
			if !known[end] && !placeholders[end] {
				placeholders[end] = true
				nodes = append(nodes, orgNode{
					ID:      end,
					Name:    model.UnknownLabel,
					Type:    "unknown",
					Label:   model.UnknownLabel,
					Unknown: true,
				})
			}
		}
		links = append(links, orgLink{
			Source: rel.Source,
			Target: rel.Target,
			Type:   rel.Type,
			Desc:   rel.Description,
			Mutual: rel.IsMutual(),
		})
	}

	// Sort nodes by ID for determinism
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})

	return nodes, links
}

// RenderHTML produces the self-contained interactive page as a string.
// Serve mode uses this directly so every request reflects the current dataset.
func RenderHTML(opts HTMLOptions) (string, error) {
	if opts.Dataset == nil || len(opts.Dataset.Organizations) == 0 {
		return "", fmt.Errorf("no organizations to export")
	}

	nodes, links := buildGraphData(opts.Dataset, opts.Insights)

	colors := make(map[string]string, len(typeHex)+1)
	for t, hex := range typeHex {
		colors[string(t)] = hex
	}
	colors["unknown"] = unknownHex

	if opts.LinkDistance <= 0 {
		opts.LinkDistance = view.DefaultLinkDistance
	}
	if opts.ChargeStrength == 0 {
		opts.ChargeStrength = -180
	}
	if opts.CollisionRadius <= 0 {
		opts.CollisionRadius = 24
	}
	if opts.NodeSize <= 0 {
		opts.NodeSize = view.DefaultNodeSize
	}

	payload := map[string]interface{}{
		"nodes":  nodes,
		"links":  links,
		"colors": colors,
		"config": map[string]interface{}{
			"linkDistance":    opts.LinkDistance,
			"chargeStrength":  opts.ChargeStrength,
			"collisionRadius": opts.CollisionRadius,
			"nodeSize":        opts.NodeSize,
			"labelsVisible":   opts.LabelsVisible,
			"dataURL":         opts.DataURL,
		},
	}
	dataJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal graph data: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = "Organization Network"
	}

	return renderHTMLDocument(title, string(dataJSON), len(nodes), len(links)), nil
}

// GenerateHTML creates a self-contained HTML file with a d3 force layout.
// Returns the output path.
func GenerateHTML(opts HTMLOptions) (string, error) {
	html, err := RenderHTML(opts)
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = "Organization Network"
	}

	outputPath := opts.Path
	if outputPath == "" {
		outputPath = GenerateHTMLFilename(title)
	}
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".html"
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

func renderHTMLDocument(title, dataJSON string, nodeCount, linkCount int) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", htmlEscape(title))
	sb.WriteString("<style>\n" + htmlCSS + "</style>\n</head>\n<body>\n")

	fmt.Fprintf(&sb, `<header>
<h1>%s</h1>
<div id="controls">
<input id="search" type="text" placeholder="Search organizations...">
<select id="typeFilter"><option value="">All types</option></select>
<select id="sortKey"><option value="name">Sort: Name</option><option value="type">Sort: Type</option><option value="contact">Sort: Contact</option></select>
<button id="labelsBtn">Labels</button>
<button id="clearBtn">Clear Filters</button>
<button id="refreshBtn" class="hidden">Refresh</button>
<span id="countMsg"></span>
</div>
</header>
`, htmlEscape(title))

	fmt.Fprintf(&sb, "<!-- %d nodes, %d links -->\n", nodeCount, linkCount)

	sb.WriteString(`<main>
<div id="listPane"><ul id="orgList"></ul></div>
<div id="graphPane"><svg id="graph"></svg><div id="legend"></div></div>
<aside id="detailPane" class="hidden">
<button id="closeDetail">&times;</button>
<div id="detailBody"></div>
</aside>
</main>
<div id="tooltip" class="hidden"></div>
<script src="https://d3js.org/d3.v7.min.js"></script>
<script id="networkData" type="application/json">
`)
	sb.WriteString(dataJSON)
	sb.WriteString("\n</script>\n<script>\n" + htmlJS + "</script>\n</body>\n</html>\n")
	return sb.String()
}

func htmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}
