package datasource

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/orgweave/orgweave/pkg/loader"
	"github.com/orgweave/orgweave/pkg/model"
)

const sampleJSON = `{
	"organizations": [
		{"id": "org-1", "name": "Acme Corp", "type": "corporation"},
		{"id": "org-2", "name": "State University", "type": "education"}
	],
	"relationships": [
		{"source": "org-1", "target": "org-2", "type": "partnership"}
	]
}`

func writeSampleJSON(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func writeSampleDB(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE organizations (
			id TEXT PRIMARY KEY, name TEXT, type TEXT, contact_person TEXT,
			email TEXT, phone TEXT, website TEXT, description TEXT,
			address TEXT, tags TEXT
		)`,
		`CREATE TABLE relationships (
			source TEXT, target TEXT, type TEXT, description TEXT
		)`,
		`INSERT INTO organizations (id, name, type, contact_person, tags)
			VALUES ('org-1', 'Acme Corp', 'corporation', 'Pat Jones', 'tech, local')`,
		`INSERT INTO organizations (id, name, type) VALUES ('org-2', 'City Hall', 'government_agency')`,
		`INSERT INTO relationships (source, target, type, description)
			VALUES ('org-1', 'org-2', 'collaboration', 'joint program')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return path
}

func TestDiscoverSourcesFindsJSONAndSQLite(t *testing.T) {
	dir := t.TempDir()
	writeSampleJSON(t, dir, "orgs.json")
	writeSampleDB(t, dir, "orgs.db")

	sources, err := DiscoverSources(DiscoveryOptions{DataDir: dir})
	if err != nil {
		t.Fatalf("DiscoverSources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d: %v", len(sources), sources)
	}

	types := map[SourceType]bool{}
	for _, s := range sources {
		types[s.Type] = true
	}
	if !types[SourceTypeJSON] || !types[SourceTypeSQLite] {
		t.Errorf("expected both source types, got %v", types)
	}
}

func TestDiscoverSourcesValidation(t *testing.T) {
	dir := t.TempDir()
	writeSampleJSON(t, dir, "orgs.json")
	if err := os.WriteFile(filepath.Join(dir, "network.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sources, err := DiscoverSources(DiscoveryOptions{
		DataDir:                dir,
		ValidateAfterDiscovery: true,
	})
	if err != nil {
		t.Fatalf("DiscoverSources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected 1 valid source, got %d", len(sources))
	}
	if sources[0].OrgCount != 2 {
		t.Errorf("expected OrgCount 2, got %d", sources[0].OrgCount)
	}
}

func TestSelectBestSourcePrefersFreshest(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeSampleJSON(t, dir, "network.json")
	newPath := writeSampleJSON(t, dir, "orgs.json")

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	sources, err := DiscoverSources(DiscoveryOptions{
		DataDir:                dir,
		ValidateAfterDiscovery: true,
	})
	if err != nil {
		t.Fatalf("DiscoverSources: %v", err)
	}

	best, err := SelectBestSource(sources)
	if err != nil {
		t.Fatalf("SelectBestSource: %v", err)
	}
	if best.Path != newPath {
		t.Errorf("expected freshest source %s, got %s", newPath, best.Path)
	}
}

func TestSelectBestSourceEmpty(t *testing.T) {
	if _, err := SelectBestSource(nil); err == nil {
		t.Error("expected error for empty source list")
	}
}

func TestSQLiteReaderLoadDataset(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleDB(t, dir, "orgs.db")

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	source := DataSource{
		Type:    SourceTypeSQLite,
		Path:    path,
		ModTime: info.ModTime(),
	}

	reader, err := NewSQLiteReader(source)
	if err != nil {
		t.Fatalf("NewSQLiteReader: %v", err)
	}
	defer reader.Close()

	ds, err := reader.LoadDataset(loader.ParseOptions{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(ds.Organizations) != 2 {
		t.Fatalf("expected 2 organizations, got %d", len(ds.Organizations))
	}
	if len(ds.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(ds.Relationships))
	}

	acme := ds.OrgByID("org-1")
	if acme == nil {
		t.Fatal("org-1 missing")
	}
	if acme.ContactPerson != "Pat Jones" {
		t.Errorf("contact person: got %q", acme.ContactPerson)
	}
	if len(acme.Tags) != 2 || acme.Tags[0] != "tech" || acme.Tags[1] != "local" {
		t.Errorf("tags: got %v", acme.Tags)
	}

	city := ds.OrgByID("org-2")
	if city == nil {
		t.Fatal("org-2 missing")
	}
	if city.Type != model.TypeGovernment {
		t.Errorf("expected type alias government_agency to normalize, got %q", city.Type)
	}
}

func TestSQLiteLoadSanitizesRows(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleDB(t, dir, "orgs.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	stmts := []string{
		`INSERT INTO organizations (id, name, type) VALUES ('org-3', '', 'corporation')`,
		`INSERT INTO relationships (source, target, type) VALUES ('org-1', '', 'funding')`,
		`INSERT INTO relationships (source, target, type) VALUES ('org-1', 'ghost', 'funding')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	db.Close()

	var warnings []string
	reader, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteReader: %v", err)
	}
	defer reader.Close()

	ds, err := reader.LoadDataset(loader.ParseOptions{
		WarningHandler: func(msg string) { warnings = append(warnings, msg) },
	})
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}

	if len(ds.Organizations) != 2 {
		t.Errorf("expected nameless org to be dropped, got %d organizations", len(ds.Organizations))
	}
	// The empty-endpoint relationship is dropped; the dangling one is kept.
	if len(ds.Relationships) != 2 {
		t.Errorf("expected 2 relationships, got %d", len(ds.Relationships))
	}

	joined := strings.Join(warnings, "\n")
	for _, want := range []string{"empty name", "empty endpoint", `unknown organization "ghost"`} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %q:\n%s", want, joined)
		}
	}
}

func TestValidateSourceUsesRowTimestamps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orgs.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	future := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	stmts := []string{
		`CREATE TABLE organizations (id TEXT PRIMARY KEY, name TEXT, type TEXT, updated_at TIMESTAMP)`,
		`CREATE TABLE relationships (source TEXT, target TEXT, type TEXT, description TEXT)`,
		`INSERT INTO organizations (id, name, type, updated_at)
			VALUES ('org-1', 'Acme Corp', 'corporation', '` + future.Format("2006-01-02 15:04:05") + `')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	db.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	source := DataSource{Type: SourceTypeSQLite, Path: path, ModTime: info.ModTime()}
	if err := ValidateSource(&source); err != nil {
		t.Fatalf("ValidateSource: %v", err)
	}
	if !source.ModTime.After(info.ModTime()) {
		t.Errorf("expected ModTime refined past file mtime, got %s", source.ModTime)
	}
}

func TestSQLiteReaderRejectsNonSQLite(t *testing.T) {
	_, err := NewSQLiteReader(DataSource{Type: SourceTypeJSON, Path: "x.json"})
	if err == nil {
		t.Error("expected error for non-SQLite source")
	}
}

func TestLoadDatasetEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeSampleJSON(t, dir, "orgs.json")

	ds, err := LoadDataset(dir, loader.ParseOptions{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(ds.Organizations) != 2 {
		t.Errorf("expected 2 organizations, got %d", len(ds.Organizations))
	}
}

func TestLoadDatasetEmptyDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadDataset(dir, loader.ParseOptions{WarningHandler: func(string) {}}); err == nil {
		t.Error("expected error for empty data directory")
	}
}

func TestLoadFromSourceSQLite(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleDB(t, dir, "orgs.db")

	ds, err := LoadFromSource(DataSource{Type: SourceTypeSQLite, Path: path}, loader.ParseOptions{})
	if err != nil {
		t.Fatalf("LoadFromSource: %v", err)
	}
	if len(ds.Organizations) != 2 {
		t.Errorf("expected 2 organizations, got %d", len(ds.Organizations))
	}
}
