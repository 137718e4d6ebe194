package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/orgweave/orgweave/pkg/graph"
	"github.com/orgweave/orgweave/pkg/model"
)

// BundleOptions controls a combined export: interactive HTML plus SVG and PNG
// snapshots written into one directory.
type BundleOptions struct {
	Dir      string
	Title    string
	Dataset  *model.Dataset
	Insights *graph.Insights
}

// BundleResult lists the files a bundle export produced.
type BundleResult struct {
	HTMLPath string
	SVGPath  string
	PNGPath  string
}

// SaveBundle writes all export formats concurrently. The formats are
// independent, so one failing cancels the rest and reports the first error.
func SaveBundle(ctx context.Context, opts BundleOptions) (*BundleResult, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.Dataset == nil || len(opts.Dataset.Organizations) == 0 {
		return nil, fmt.Errorf("no organizations to export")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bundle dir: %w", err)
	}

	ins := opts.Insights
	if ins == nil {
		ins = graph.ComputeInsights(opts.Dataset)
	}

	result := &BundleResult{
		HTMLPath: filepath.Join(opts.Dir, "network.html"),
		SVGPath:  filepath.Join(opts.Dir, "network.svg"),
		PNGPath:  filepath.Join(opts.Dir, "network.png"),
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := GenerateHTML(HTMLOptions{
			Dataset:       opts.Dataset,
			Insights:      ins,
			Title:         opts.Title,
			Path:          result.HTMLPath,
			LabelsVisible: true,
		})
		if err != nil {
			return fmt.Errorf("html: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := SaveSnapshot(SnapshotOptions{
			Path:     result.SVGPath,
			Format:   "svg",
			Title:    opts.Title,
			Dataset:  opts.Dataset,
			Insights: ins,
		}); err != nil {
			return fmt.Errorf("svg: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := SaveSnapshot(SnapshotOptions{
			Path:     result.PNGPath,
			Format:   "png",
			Title:    opts.Title,
			Dataset:  opts.Dataset,
			Insights: ins,
		}); err != nil {
			return fmt.Errorf("png: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
