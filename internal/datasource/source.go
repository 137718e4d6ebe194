// Package datasource provides multi-source data detection and selection for
// orgweave. It discovers, validates, and selects the freshest valid source
// from JSON network files and SQLite databases in a data directory.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/orgweave/orgweave/pkg/loader"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeJSON is a JSON network file (orgs.json, network.json)
	SourceTypeJSON SourceType = "json"
	// SourceTypeSQLite is a SQLite database (orgs.db)
	SourceTypeSQLite SourceType = "sqlite"
)

// Priority values for source types (higher = more authoritative)
const (
	PriorityJSON   = 100
	PrioritySQLite = 80
)

// DataSource represents a potential source of organization data
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// OrgCount is the number of organizations in the source (set during validation)
	OrgCount int `json:"org_count"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, orgs=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.OrgCount, status)
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// DataDir is the directory to scan (optional, auto-detected if empty)
	DataDir string
	// ValidateAfterDiscovery runs validation on each discovered source
	ValidateAfterDiscovery bool
	// IncludeInvalid includes sources that failed validation in results
	IncludeInvalid bool
	// Verbose enables detailed logging during discovery
	Verbose bool
	// Logger receives log messages when Verbose is true
	Logger func(msg string)
}

// DiscoverSources finds all potential data sources in the data directory
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		if envDir := os.Getenv(loader.DataDirEnvVar); envDir != "" {
			dataDir = envDir
		} else {
			var err error
			dataDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
		}
	}

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovering sources in: %s", dataDir))
	}

	var sources []DataSource

	jsonSources, err := discoverJSONSources(dataDir, opts)
	if err != nil && opts.Verbose {
		opts.Logger(fmt.Sprintf("JSON discovery warning: %v", err))
	}
	sources = append(sources, jsonSources...)

	sqliteSources, err := discoverSQLiteSources(dataDir, opts)
	if err != nil && opts.Verbose {
		opts.Logger(fmt.Sprintf("SQLite discovery warning: %v", err))
	}
	sources = append(sources, sqliteSources...)

	if opts.ValidateAfterDiscovery {
		for i := range sources {
			if err := ValidateSource(&sources[i]); err != nil && opts.Verbose {
				opts.Logger(fmt.Sprintf("Validation failed for %s: %v", sources[i].Path, err))
			}
		}
	}

	if opts.ValidateAfterDiscovery && !opts.IncludeInvalid {
		var validSources []DataSource
		for _, s := range sources {
			if s.Valid {
				validSources = append(validSources, s)
			}
		}
		sources = validSources
	}

	// Sort by mod time, priority breaking ties
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovered %d sources", len(sources)))
	}

	return sources, nil
}

// discoverJSONSources finds JSON network files in the data directory
func discoverJSONSources(dataDir string, opts DiscoveryOptions) ([]DataSource, error) {
	var sources []DataSource

	for _, name := range loader.PreferredJSONNames {
		path := filepath.Join(dataDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		sources = append(sources, DataSource{
			Type:     SourceTypeJSON,
			Path:     path,
			Priority: PriorityJSON,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found JSON: %s (mod=%s)", path, info.ModTime().Format(time.RFC3339)))
		}
	}

	// Pick up any other .json files, skipping backups and merge artifacts
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return sources, fmt.Errorf("failed to read data directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		if isPreferredJSONName(name) {
			continue
		}
		if strings.Contains(name, ".backup") ||
			strings.Contains(name, ".orig") ||
			strings.Contains(name, ".merge") {
			continue
		}

		path := filepath.Join(dataDir, name)
		info, err := e.Info()
		if err != nil {
			continue
		}

		sources = append(sources, DataSource{
			Type:     SourceTypeJSON,
			Path:     path,
			Priority: PriorityJSON - 10,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})

		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found JSON: %s (mod=%s)", path, info.ModTime().Format(time.RFC3339)))
		}
	}

	return sources, nil
}

func isPreferredJSONName(name string) bool {
	for _, p := range loader.PreferredJSONNames {
		if name == p {
			return true
		}
	}
	return false
}

// discoverSQLiteSources finds SQLite databases in the data directory
func discoverSQLiteSources(dataDir string, opts DiscoveryOptions) ([]DataSource, error) {
	var sources []DataSource

	for _, name := range []string{"orgs.db", "network.db"} {
		dbPath := filepath.Join(dataDir, name)
		info, err := os.Stat(dbPath)
		if err != nil {
			continue
		}
		sources = append(sources, DataSource{
			Type:     SourceTypeSQLite,
			Path:     dbPath,
			Priority: PrioritySQLite,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found SQLite: %s (mod=%s)", dbPath, info.ModTime().Format(time.RFC3339)))
		}
	}

	return sources, nil
}

// ValidateSource checks that a source can be opened and parsed, recording the
// result on the source itself.
func ValidateSource(s *DataSource) error {
	switch s.Type {
	case SourceTypeJSON:
		ds, err := loader.LoadDatasetWithOptions(s.Path, loader.ParseOptions{
			WarningHandler: func(string) {},
		})
		if err != nil {
			s.Valid = false
			s.ValidationError = err.Error()
			return err
		}
		s.Valid = true
		s.ValidationError = ""
		s.OrgCount = len(ds.Organizations)
		return nil

	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(*s)
		if err != nil {
			s.Valid = false
			s.ValidationError = err.Error()
			return err
		}
		defer reader.Close()
		count, err := reader.CountOrganizations()
		if err != nil {
			s.Valid = false
			s.ValidationError = err.Error()
			return err
		}
		s.Valid = true
		s.ValidationError = ""
		s.OrgCount = count
		// Row-level timestamps beat the file mtime for freshness ranking
		// when the schema tracks them.
		if last, lmErr := reader.GetLastModified(); lmErr == nil && last.After(s.ModTime) {
			s.ModTime = last
		}
		return nil

	default:
		s.Valid = false
		s.ValidationError = fmt.Sprintf("unknown source type: %s", s.Type)
		return fmt.Errorf("unknown source type: %s", s.Type)
	}
}

// SelectBestSource returns the preferred source from a discovered, sorted list.
// Sources are already ordered freshest-first with priority breaking ties, so
// the first valid entry wins.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Valid {
			return s, nil
		}
	}
	return DataSource{}, fmt.Errorf("no valid sources among %d discovered", len(sources))
}
