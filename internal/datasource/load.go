package datasource

import (
	"fmt"

	"github.com/orgweave/orgweave/pkg/loader"
	"github.com/orgweave/orgweave/pkg/model"
)

// LoadDataset performs multi-source detection and loading. It discovers all
// available sources in the data directory (JSON, SQLite), validates them,
// selects the freshest valid source, and loads the dataset from it. JSON is
// preferred over SQLite when both exist at comparable freshness since JSON is
// the canonical interchange format.
//
// Falls back to plain JSON loading via loader.LoadDataset if smart detection
// finds no valid sources.
func LoadDataset(dataDir string, opts loader.ParseOptions) (*model.Dataset, error) {
	ds, smartErr := loadSmart(dataDir, opts)
	if smartErr == nil {
		return ds, nil
	}

	path, err := loader.FindJSONPath(dataDir)
	if err != nil {
		return nil, fmt.Errorf("no usable data source: %w", smartErr)
	}
	return loader.LoadDatasetWithOptions(path, opts)
}

// loadSmart discovers sources, validates, selects the best, and loads from it.
func loadSmart(dataDir string, opts loader.ParseOptions) (*model.Dataset, error) {
	sources, err := DiscoverSources(DiscoveryOptions{
		DataDir:                dataDir,
		ValidateAfterDiscovery: true,
		IncludeInvalid:         false,
	})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no valid sources discovered")
	}

	best, err := SelectBestSource(sources)
	if err != nil {
		return nil, err
	}

	return LoadFromSource(best, opts)
}

// LoadFromSource loads a dataset from a specific DataSource, dispatching to
// the appropriate reader based on source type.
func LoadFromSource(source DataSource, opts loader.ParseOptions) (*model.Dataset, error) {
	switch source.Type {
	case SourceTypeJSON:
		return loader.LoadDatasetWithOptions(source.Path, opts)

	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadDataset(opts)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
