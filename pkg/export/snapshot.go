package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/orgweave/orgweave/pkg/graph"
	"github.com/orgweave/orgweave/pkg/model"
)

// SnapshotOptions controls static snapshot export behaviour.
type SnapshotOptions struct {
	Path     string          // Output path; format inferred from extension when Format empty
	Format   string          // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title    string          // Optional title rendered in summary block
	Dataset  *model.Dataset  // Organizations and relationships to render
	Insights *graph.Insights // Used for node sizing and the summary block
}

// SaveSnapshot renders a static network snapshot (SVG or PNG) with a summary
// block and a type legend. Nodes sit on a circle, sized by degree.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Dataset == nil || len(opts.Dataset.Organizations) == 0 {
		return fmt.Errorf("no organizations to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildSnapshotLayout(opts)

	switch format {
	case "svg":
		return renderSnapshotSVG(opts.Path, layout)
	default:
		return renderSnapshotPNG(opts.Path, layout)
	}
}

// --- layout computation ----------------------------------------------------

type snapNode struct {
	ID     string
	Name   string
	Type   model.OrgType
	X, Y   float64
	Radius float64
}

type snapEdge struct {
	From, To string
}

type snapLayout struct {
	Nodes   []snapNode
	Edges   []snapEdge
	Width   int
	Height  int
	Header  float64
	Summary snapSummary
	Types   []model.OrgType
}

type snapSummary struct {
	Title      string
	NodeCount  int
	EdgeCount  int
	Components int
	TopHub     string
}

func buildSnapshotLayout(opts SnapshotOptions) snapLayout {
	const (
		headerHeight = 110.0
		padding      = 60.0
		minRadius    = 8.0
		maxRadius    = 22.0
	)

	ds := opts.Dataset
	ins := opts.Insights
	if ins == nil {
		ins = graph.ComputeInsights(ds)
	}

	n := len(ds.Organizations)
	// Circle radius scales with node count so dense networks stay readable
	circleR := 140.0 + 14.0*math.Sqrt(float64(n))
	width := int(circleR*2 + padding*2)
	if width < 800 {
		width = 800
	}
	height := int(circleR*2 + padding*2 + headerHeight)
	if height < 640 {
		height = 640
	}
	cx := float64(width) / 2
	cy := headerHeight + (float64(height)-headerHeight)/2

	// Deterministic placement: sort by name, then walk the circle
	orgs := make([]model.Organization, len(ds.Organizations))
	copy(orgs, ds.Organizations)
	sort.Slice(orgs, func(i, j int) bool {
		if orgs[i].Name != orgs[j].Name {
			return orgs[i].Name < orgs[j].Name
		}
		return orgs[i].ID < orgs[j].ID
	})

	maxDeg := ins.MaxDegree()
	typeSeen := make(map[model.OrgType]bool)

	nodes := make([]snapNode, 0, n)
	for i, org := range orgs {
		angle := 2 * math.Pi * float64(i) / float64(n)
		scale := float64(ins.Degree[org.ID]) / float64(maxDeg)
		nodes = append(nodes, snapNode{
			ID:     org.ID,
			Name:   org.Name,
			Type:   org.Type,
			X:      cx + circleR*math.Cos(angle),
			Y:      cy + circleR*math.Sin(angle),
			Radius: minRadius + (maxRadius-minRadius)*scale,
		})
		typeSeen[org.Type] = true
	}

	var types []model.OrgType
	for _, t := range model.OrgTypes {
		if typeSeen[t] {
			types = append(types, t)
		}
	}

	known := make(map[string]bool, n)
	for _, org := range orgs {
		known[org.ID] = true
	}
	var edges []snapEdge
	for _, rel := range ds.Relationships {
		// Snapshot edges need both ends placed; unresolved refs are the
		// interactive page's concern.
		if !known[rel.Source] || !known[rel.Target] {
			continue
		}
		edges = append(edges, snapEdge{From: rel.Source, To: rel.Target})
	}

	topHub := "n/a"
	if hubs := ins.TopByDegree(1); len(hubs) > 0 {
		if org := ds.OrgByID(hubs[0]); org != nil {
			topHub = fmt.Sprintf("%s (%d)", org.Name, ins.Degree[hubs[0]])
		}
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Organization Network"
	}

	return snapLayout{
		Nodes:  nodes,
		Edges:  edges,
		Width:  width,
		Height: height,
		Header: headerHeight,
		Types:  types,
		Summary: snapSummary{
			Title:      title,
			NodeCount:  len(nodes),
			EdgeCount:  len(edges),
			Components: ins.Components,
			TopHub:     topHub,
		},
	}
}

// --- rendering -------------------------------------------------------------

var (
	snapColorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	snapColorEdge     = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	snapColorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	snapColorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	snapColorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	snapColorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	snapColorLegendBG = color.RGBA{0xee, 0xee, 0xee, 0xff}
)

// typeRGBA converts the shared export palette to draw colors.
func typeRGBA(t model.OrgType) color.RGBA {
	hex := TypeHex(t)
	var r, g, b uint8
	fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
	return color.RGBA{r, g, b, 0xff}
}

func renderSnapshotPNG(path string, layout snapLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(snapColorBackdrop)
	dc.Clear()

	dc.SetColor(snapColorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	drawSnapshotSummary(dc, layout)
	drawSnapshotLegend(dc, layout)

	nodePos := make(map[string]snapNode, len(layout.Nodes))
	for _, n := range layout.Nodes {
		nodePos[n.ID] = n
	}
	dc.SetColor(snapColorEdge)
	dc.SetLineWidth(1.2)
	for _, e := range layout.Edges {
		from := nodePos[e.From]
		to := nodePos[e.To]
		dc.DrawLine(from.X, from.Y, to.X, to.Y)
		dc.Stroke()
	}

	for _, n := range layout.Nodes {
		dc.SetColor(typeRGBA(n.Type))
		dc.DrawCircle(n.X, n.Y, n.Radius)
		dc.Fill()
		dc.SetColor(snapColorStroke)
		dc.SetLineWidth(1)
		dc.DrawCircle(n.X, n.Y, n.Radius)
		dc.Stroke()

		dc.SetColor(snapColorText)
		dc.DrawStringAnchored(snapTruncate(n.Name, 24), n.X, n.Y-n.Radius-6, 0.5, 0.5)
	}

	return dc.SavePNG(path)
}

func renderSnapshotSVG(path string, layout snapLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSnapshotSVGToWriter(file, layout)
}

func renderSnapshotSVGToWriter(w io.Writer, layout snapLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(snapColorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(snapColorHeaderBG)))

	drawSnapshotSummarySVG(canvas, layout)
	drawSnapshotLegendSVG(canvas, layout)

	nodePos := make(map[string]snapNode, len(layout.Nodes))
	for _, n := range layout.Nodes {
		nodePos[n.ID] = n
	}

	for _, e := range layout.Edges {
		from := nodePos[e.From]
		to := nodePos[e.To]
		canvas.Line(int(from.X), int(from.Y), int(to.X), int(to.Y),
			fmt.Sprintf("stroke:%s;stroke-width:1.2;stroke-opacity:0.6", css(snapColorEdge)))
	}

	for _, n := range layout.Nodes {
		canvas.Circle(int(n.X), int(n.Y), int(n.Radius),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", TypeHex(n.Type), css(snapColorStroke)))
		canvas.Text(int(n.X), int(n.Y-n.Radius-6), snapTruncate(n.Name, 24),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(snapColorText)))
	}

	canvas.End()
	return nil
}

func drawSnapshotSummary(dc *gg.Context, layout snapLayout) {
	s := layout.Summary
	dc.SetColor(snapColorText)
	dc.DrawStringAnchored(s.Title, 32, 44, 0, 0.5)
	dc.SetColor(snapColorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("organizations: %d  relationships: %d  clusters: %d",
		s.NodeCount, s.EdgeCount, s.Components), 32, 64, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("most connected: %s", s.TopHub), 32, 84, 0, 0.5)
}

func drawSnapshotSummarySVG(canvas *svg.SVG, layout snapLayout) {
	s := layout.Summary
	canvas.Text(32, 44, s.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(snapColorText)))
	canvas.Text(32, 64, fmt.Sprintf("organizations: %d  relationships: %d  clusters: %d",
		s.NodeCount, s.EdgeCount, s.Components),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(snapColorSubtle)))
	canvas.Text(32, 84, fmt.Sprintf("most connected: %s", s.TopHub),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(snapColorSubtle)))
}

func drawSnapshotLegend(dc *gg.Context, layout snapLayout) {
	boxW := 200.0
	boxH := 20.0*float64(len(layout.Types)) + 28
	x := float64(layout.Width) - boxW - 20
	y := 24.0
	dc.SetColor(snapColorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(snapColorStroke)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	dc.SetColor(snapColorText)
	dc.DrawStringAnchored("Legend", x+12, y+16, 0, 0.5)
	for i, t := range layout.Types {
		rowY := y + 34 + float64(i)*20
		dc.SetColor(typeRGBA(t))
		dc.DrawCircle(x+18, rowY, 6)
		dc.Fill()
		dc.SetColor(snapColorSubtle)
		dc.DrawStringAnchored(t.Label(), x+32, rowY, 0, 0.5)
	}
}

func drawSnapshotLegendSVG(canvas *svg.SVG, layout snapLayout) {
	boxW := 200
	boxH := 20*len(layout.Types) + 28
	x := layout.Width - boxW - 20
	y := 24
	canvas.Roundrect(x, y, boxW, boxH, 10, 10,
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(snapColorLegendBG), css(snapColorStroke)))
	canvas.Text(x+12, y+20, "Legend",
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(snapColorText)))
	for i, t := range layout.Types {
		rowY := y + 38 + i*20
		canvas.Circle(x+18, rowY-4, 6, fmt.Sprintf("fill:%s", TypeHex(t)))
		canvas.Text(x+32, rowY, t.Label(),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(snapColorSubtle)))
	}
}

// --- helpers ---------------------------------------------------------------

func snapTruncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
