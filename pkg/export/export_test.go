package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orgweave/orgweave/pkg/graph"
	"github.com/orgweave/orgweave/pkg/model"
)

func exportDataset() *model.Dataset {
	return &model.Dataset{
		Organizations: []model.Organization{
			{ID: "acme", Name: "Acme Corp", Type: model.TypeCorporation, ContactPerson: "Pat Jones"},
			{ID: "uni", Name: "State University", Type: model.TypeEducation},
			{ID: "food", Name: "Food Bank", Type: model.TypeNonProfit},
		},
		Relationships: []model.Relationship{
			{Source: "acme", Target: "uni", Type: "partnership"},
			{Source: "food", Target: "ghost", Type: "funding"},
		},
	}
}

func TestBuildGraphDataAddsUnknownPlaceholder(t *testing.T) {
	ds := exportDataset()
	nodes, links := buildGraphData(ds, graph.ComputeInsights(ds))

	if len(links) != 2 {
		t.Fatalf("expected 2 links (dangling edges still drawn), got %d", len(links))
	}

	var ghost *orgNode
	for i := range nodes {
		if nodes[i].ID == "ghost" {
			ghost = &nodes[i]
		}
	}
	if ghost == nil {
		t.Fatal("expected placeholder node for dangling target")
	}
	if !ghost.Unknown || ghost.Name != model.UnknownLabel {
		t.Errorf("placeholder should be marked unknown with name %q, got %+v", model.UnknownLabel, ghost)
	}
}

func TestGenerateHTMLWritesSelfContainedPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")

	got, err := GenerateHTML(HTMLOptions{
		Dataset:       exportDataset(),
		Title:         "Test Network",
		Path:          path,
		LabelsVisible: true,
		DataURL:       "/data.json",
	})
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	if got != path {
		t.Errorf("expected path %s, got %s", path, got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	html := string(data)

	for _, want := range []string{
		"Test Network",
		"Acme Corp",
		model.UnknownLabel,
		"d3.v7.min.js",
		"scaleExtent([0.1,4])",
		`"linkDistance":120`,
		`"chargeStrength":-180`,
		`"dataURL":"/data.json"`,
		"'t=' + Date.now()",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestGenerateHTMLAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	got, err := GenerateHTML(HTMLOptions{
		Dataset: exportDataset(),
		Path:    filepath.Join(dir, "out.txt"),
	})
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	if !strings.HasSuffix(got, ".html") {
		t.Errorf("expected .html extension, got %s", got)
	}
}

func TestGenerateHTMLEmptyDataset(t *testing.T) {
	if _, err := GenerateHTML(HTMLOptions{Dataset: &model.Dataset{}}); err == nil {
		t.Error("expected error for empty dataset")
	}
}

func TestGenerateHTMLFilename(t *testing.T) {
	name := GenerateHTMLFilename("My Network/Test")
	if strings.ContainsAny(name, " /") {
		t.Errorf("filename not sanitized: %q", name)
	}
	if !strings.HasSuffix(name, ".html") {
		t.Errorf("expected .html suffix: %q", name)
	}
}

func TestSaveSnapshotSVG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.svg")

	err := SaveSnapshot(SnapshotOptions{
		Path:    path,
		Title:   "Snapshot Test",
		Dataset: exportDataset(),
	})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	svg := string(data)
	for _, want := range []string{"<svg", "Snapshot Test", "Acme Corp", "Legend", "organizations: 3"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	// Edge with a dangling end is skipped; only the resolvable one is drawn
	if !strings.Contains(svg, "relationships: 1") {
		t.Error("expected a single drawable relationship in summary")
	}
}

func TestSaveSnapshotPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.png")

	err := SaveSnapshot(SnapshotOptions{
		Path:    path,
		Format:  "png",
		Dataset: exportDataset(),
	})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty PNG")
	}
}

func TestSaveSnapshotInfersFormatAndRejectsUnknown(t *testing.T) {
	dir := t.TempDir()

	// Extension-less path gets .svg appended
	path := filepath.Join(dir, "plain")
	if err := SaveSnapshot(SnapshotOptions{Path: path, Dataset: exportDataset()}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := os.Stat(path + ".svg"); err != nil {
		t.Errorf("expected %s.svg to exist: %v", path, err)
	}

	err := SaveSnapshot(SnapshotOptions{
		Path:    filepath.Join(dir, "x.gif"),
		Format:  "gif",
		Dataset: exportDataset(),
	})
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSaveBundleWritesAllFormats(t *testing.T) {
	dir := t.TempDir()

	result, err := SaveBundle(context.Background(), BundleOptions{
		Dir:     dir,
		Title:   "Bundle",
		Dataset: exportDataset(),
	})
	if err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}

	for _, path := range []string{result.HTMLPath, result.SVGPath, result.PNGPath} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("missing bundle file %s: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("empty bundle file %s", path)
		}
	}
}

func TestTypeHexFallback(t *testing.T) {
	if TypeHex(model.TypeCorporation) == TypeHex("something_else") {
		t.Error("known type should not share the fallback color")
	}
	if TypeHex("something_else") != unknownHex {
		t.Error("unknown type should use gray fallback")
	}
}
