// Package loader reads organization network datasets from JSON documents on
// disk or over HTTP. Malformed records are skipped with a warning rather than
// failing the whole load; only an unreadable or unparseable document is an
// error.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/orgweave/orgweave/pkg/model"
)

// DataDirEnvVar names the environment variable for a custom data directory.
const DataDirEnvVar = "ORGWEAVE_DIR"

// PreferredJSONNames defines the priority order for dataset files in a data
// directory.
var PreferredJSONNames = []string{"orgs.json", "network.json", "organizations.json"}

// DefaultFetchTimeout bounds a single HTTP dataset fetch.
const DefaultFetchTimeout = 30 * time.Second

// ParseOptions configures dataset parsing.
type ParseOptions struct {
	// WarningHandler receives non-fatal diagnostics (duplicate ids, invalid
	// records, dangling references). If nil, warnings go to os.Stderr.
	WarningHandler func(string)
}

func (o ParseOptions) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	return func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

// LoadDataset reads and parses a dataset from a file path.
func LoadDataset(path string) (*model.Dataset, error) {
	return LoadDatasetWithOptions(path, ParseOptions{})
}

// LoadDatasetWithOptions reads a dataset from a file path with custom options.
func LoadDatasetWithOptions(path string, opts ParseOptions) (*model.Dataset, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no dataset found at %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return ParseDataset(f, opts)
}

// FindJSONPath locates a dataset file in a data directory, trying the
// preferred names in priority order.
func FindJSONPath(dataDir string) (string, error) {
	for _, name := range PreferredJSONNames {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no dataset file found in %s (tried %s)",
		dataDir, strings.Join(PreferredJSONNames, ", "))
}

// FetchDataset retrieves a dataset over HTTP. A cache-busting timestamp query
// parameter is appended so a reload always bypasses intermediary HTTP caches.
// The request is a single non-retried round trip.
func FetchDataset(ctx context.Context, rawURL string, opts ParseOptions) (*model.Dataset, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset URL: %w", err)
	}
	q := u.Query()
	q.Set("t", fmt.Sprintf("%d", time.Now().UnixNano()))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: DefaultFetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching dataset: unexpected status %s", resp.Status)
	}
	return ParseDataset(resp.Body, opts)
}

// IsURL reports whether the given dataset location is an HTTP(S) URL rather
// than a filesystem path.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// ParseDataset decodes a dataset document from a reader. Organizations with
// duplicate or missing ids and relationships with empty endpoints are dropped
// with a warning. Dangling relationship references are kept (they render with
// a placeholder) but reported.
func ParseDataset(r io.Reader, opts ParseOptions) (*model.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	data = stripBOM(data)

	var raw model.Dataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	return SanitizeDataset(&raw, opts), nil
}

// SanitizeDataset normalizes and validates a decoded dataset. Every load path
// goes through here so file, HTTP, and database sources honor the same record
// invariants. The input is not modified.
func SanitizeDataset(raw *model.Dataset, opts ParseOptions) *model.Dataset {
	warn := opts.warn()

	ds := &model.Dataset{
		Organizations: make([]model.Organization, 0, len(raw.Organizations)),
		Relationships: make([]model.Relationship, 0, len(raw.Relationships)),
	}

	seen := make(map[string]bool, len(raw.Organizations))
	for i := range raw.Organizations {
		org := raw.Organizations[i]
		org.Type = model.NormalizeOrgType(string(org.Type))
		if err := org.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid organization at index %d: %v", i, err))
			continue
		}
		if seen[org.ID] {
			warn(fmt.Sprintf("skipping duplicate organization id %q", org.ID))
			continue
		}
		seen[org.ID] = true
		ds.Organizations = append(ds.Organizations, org)
	}

	for i := range raw.Relationships {
		rel := raw.Relationships[i]
		if err := rel.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid relationship at index %d: %v", i, err))
			continue
		}
		ds.Relationships = append(ds.Relationships, rel)
	}

	for _, id := range ds.DanglingRefs() {
		warn(fmt.Sprintf("relationship references unknown organization %q; rendering as %q", id, model.UnknownLabel))
	}

	return ds
}

// stripBOM removes the UTF-8 byte order mark if present.
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
