package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.UI.DefaultView != "list" {
		t.Errorf("default view: got %q", cfg.UI.DefaultView)
	}
	if cfg.UI.NodeSize != 10 || cfg.UI.LinkDistance != 120 {
		t.Errorf("default sizes: got %v / %v", cfg.UI.NodeSize, cfg.UI.LinkDistance)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.DefaultView = "graph"
	cfg.UI.LabelsHidden = true
	cfg.Networks = []Network{{Name: "local", Path: "/data/orgs.json"}}
	cfg.Colors = map[string]string{"corporation": "#123456"}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.UI.DefaultView != "graph" || !got.UI.LabelsHidden {
		t.Errorf("UI settings did not round-trip: %+v", got.UI)
	}
	if n := got.FindNetwork("LOCAL"); n == nil || n.Path != "/data/orgs.json" {
		t.Errorf("FindNetwork: got %+v", n)
	}
	if got.Colors["corporation"] != "#123456" {
		t.Errorf("colors did not round-trip: %v", got.Colors)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not: [valid"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromClampsSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  node_size: -5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.UI.NodeSize != 10 {
		t.Errorf("expected node size to fall back to default, got %v", cfg.UI.NodeSize)
	}
}

func TestConfigDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgtest")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdgtest", "ow") {
		t.Errorf("ConfigDir: got %q", got)
	}
	if got := ConfigPath(); filepath.Base(got) != "config.yaml" {
		t.Errorf("ConfigPath: got %q", got)
	}
}
