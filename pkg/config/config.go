// Package config handles loading and saving orgweave configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/ow/config.yaml
//   - Data:    ~/.local/share/ow/ (exports, cached datasets)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Network represents a registered dataset in the config.
type Network struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	DefaultView  string  `yaml:"default_view,omitempty"`  // list, graph, split
	LabelsHidden bool    `yaml:"labels_hidden,omitempty"` // Start with node labels off
	NodeSize     float64 `yaml:"node_size,omitempty"`
	LinkDistance float64 `yaml:"link_distance,omitempty"`
}

// ForceConfig tunes the exported force simulation.
type ForceConfig struct {
	ChargeStrength  float64 `yaml:"charge_strength,omitempty"`
	CollisionRadius float64 `yaml:"collision_radius,omitempty"`
}

// Config is the top-level configuration for orgweave.
type Config struct {
	Networks []Network         `yaml:"networks,omitempty"`
	UI       UIConfig          `yaml:"ui,omitempty"`
	Force    ForceConfig       `yaml:"force,omitempty"`
	Colors   map[string]string `yaml:"colors,omitempty"` // Org type -> hex color override
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DefaultView:  "list",
			NodeSize:     10,
			LinkDistance: 120,
		},
		Force: ForceConfig{
			ChargeStrength:  -180,
			CollisionRadius: 24,
		},
	}
}

// ConfigDir returns the XDG config directory for orgweave.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "ow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ow")
}

// DataDir returns the XDG data directory for orgweave.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "ow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "ow")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Expand ~ in network paths
	for i := range cfg.Networks {
		cfg.Networks[i].Path = expandHome(cfg.Networks[i].Path)
	}

	if cfg.UI.NodeSize <= 0 {
		cfg.UI.NodeSize = 10
	}
	if cfg.UI.LinkDistance <= 0 {
		cfg.UI.LinkDistance = 120
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindNetwork returns the registered network with the given name, or nil.
func (c Config) FindNetwork(name string) *Network {
	for i := range c.Networks {
		if strings.EqualFold(c.Networks[i].Name, name) {
			return &c.Networks[i]
		}
	}
	return nil
}

// ResolvedPath returns the network path with ~ expanded.
func (n Network) ResolvedPath() string {
	return expandHome(n.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
