package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/orgweave/orgweave/internal/datasource"
	"github.com/orgweave/orgweave/pkg/config"
	"github.com/orgweave/orgweave/pkg/export"
	"github.com/orgweave/orgweave/pkg/graph"
	"github.com/orgweave/orgweave/pkg/loader"
	"github.com/orgweave/orgweave/pkg/model"
	"github.com/orgweave/orgweave/pkg/store"
	"github.com/orgweave/orgweave/pkg/ui"
	"github.com/orgweave/orgweave/pkg/version"
	"github.com/orgweave/orgweave/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dataDir := flag.String("data", "", "Data directory containing orgs.json or orgs.db (default: $ORGWEAVE_DIR, then current directory)")
	dataURL := flag.String("url", "", "Load the dataset from an HTTP(S) URL instead of a local directory")
	networkName := flag.String("network", "", "Load a named network from the config file")
	title := flag.String("title", "", "Display title for exports and serve mode")
	exportHTML := flag.String("export-html", "", "Write an interactive HTML page to the given path and exit ('auto' picks a timestamped name)")
	snapshotPath := flag.String("snapshot", "", "Write a static snapshot (.svg or .png) to the given path and exit")
	bundleDir := flag.String("bundle", "", "Write HTML, SVG and PNG exports into the given directory and exit")
	wizardFlag := flag.Bool("wizard", false, "Run the interactive export wizard")
	serveAddr := flag.String("serve", "", "Serve the interactive page over HTTP at the given address (e.g. :8080)")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the dataset file")
	forcePoll := flag.Bool("force-poll", false, "Use polling instead of filesystem notifications for live reload")
	flag.Parse()

	if *help {
		fmt.Println("Usage: ow [options]")
		fmt.Println("\nA viewer for organization relationship networks.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("ow %s\n", version.Version)
		os.Exit(0)
	}

	appCfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", cfgErr)
		appCfg = config.DefaultConfig()
	}

	dir := *dataDir
	if *networkName != "" {
		net := appCfg.FindNetwork(*networkName)
		if net == nil {
			fmt.Fprintf(os.Stderr, "Error: no network named %q in %s\n", *networkName, config.ConfigPath())
			os.Exit(1)
		}
		dir = net.ResolvedPath()
		if *title == "" {
			*title = net.Name
		}
	}

	load := func() (*model.Dataset, error) {
		if *dataURL != "" {
			ctx, cancel := context.WithTimeout(context.Background(), loader.DefaultFetchTimeout)
			defer cancel()
			return loader.FetchDataset(ctx, *dataURL, loader.ParseOptions{})
		}
		return datasource.LoadDataset(dir, loader.ParseOptions{})
	}

	ds, err := load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading organizations: %v\n", err)
		fmt.Fprintln(os.Stderr, "Point ow at a directory with orgs.json via --data or ORGWEAVE_DIR.")
		os.Exit(1)
	}

	if *exportHTML != "" || *snapshotPath != "" || *bundleDir != "" || *wizardFlag {
		if err := runExport(ds, appCfg, *title, *exportHTML, *snapshotPath, *bundleDir, *wizardFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *serveAddr != "" {
		if err := runServe(*serveAddr, *title, appCfg, load); err != nil {
			fmt.Fprintf(os.Stderr, "Serve failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal. Use --export-html, --snapshot or --serve for non-interactive output.")
		os.Exit(1)
	}

	st := store.New(ds)

	var w *watcher.Watcher
	if !*noWatch && *dataURL == "" {
		if path := watchTarget(dir); path != "" {
			w, err = watcher.New(path, watcher.WithForcePoll(*forcePoll))
			if err == nil {
				if startErr := w.Start(); startErr != nil {
					fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", startErr)
					w = nil
				}
			} else {
				fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", err)
				w = nil
			}
		}
	}
	if w != nil {
		defer w.Stop()
	}

	m := ui.NewModel(st, ui.Options{
		Watcher: w,
		Reload:  load,
		Config:  appCfg,
	})

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running organization viewer: %v\n", err)
		os.Exit(1)
	}
}

// watchTarget resolves the concrete file the watcher should observe. The
// reload itself re-runs full source selection, so watching the currently best
// source is enough to notice edits to it.
func watchTarget(dir string) string {
	sources, err := datasource.DiscoverSources(datasource.DiscoveryOptions{
		DataDir:                dir,
		ValidateAfterDiscovery: true,
	})
	if err != nil || len(sources) == 0 {
		return ""
	}
	best, err := datasource.SelectBestSource(sources)
	if err != nil {
		return ""
	}
	return best.Path
}

func runExport(ds *model.Dataset, cfg config.Config, title, htmlPath, snapshotPath, bundleDir string, wizard bool) error {
	ins := graph.ComputeInsights(ds)

	if wizard {
		wc, err := export.NewWizard().Run()
		if err != nil {
			return err
		}
		if title == "" {
			title = wc.Title
		}
		switch wc.Format {
		case "bundle":
			bundleDir = wc.OutputPath
		case "svg", "png":
			snapshotPath = wc.OutputPath
		default:
			htmlPath = wc.OutputPath
			if htmlPath == "" {
				htmlPath = "auto"
			}
		}
		cfg.UI.LabelsHidden = !wc.ShowLabels
	}

	if bundleDir != "" {
		result, err := export.SaveBundle(context.Background(), export.BundleOptions{
			Dir:      bundleDir,
			Title:    title,
			Dataset:  ds,
			Insights: ins,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Saved bundle:\n  %s\n  %s\n  %s\n", result.HTMLPath, result.SVGPath, result.PNGPath)
		return nil
	}

	if snapshotPath != "" {
		if err := export.SaveSnapshot(export.SnapshotOptions{
			Path:     snapshotPath,
			Title:    title,
			Dataset:  ds,
			Insights: ins,
		}); err != nil {
			return err
		}
		fmt.Printf("Saved snapshot: %s\n", snapshotPath)
		return nil
	}

	path := htmlPath
	if path == "auto" {
		path = ""
	}
	out, err := export.GenerateHTML(htmlOptions(ds, ins, cfg, title, path, ""))
	if err != nil {
		return err
	}
	fmt.Printf("Saved interactive page: %s\n", out)
	return nil
}

func htmlOptions(ds *model.Dataset, ins *graph.Insights, cfg config.Config, title, path, dataURL string) export.HTMLOptions {
	return export.HTMLOptions{
		Dataset:         ds,
		Insights:        ins,
		Title:           title,
		Path:            path,
		DataURL:         dataURL,
		LinkDistance:    cfg.UI.LinkDistance,
		ChargeStrength:  cfg.Force.ChargeStrength,
		CollisionRadius: cfg.Force.CollisionRadius,
		NodeSize:        cfg.UI.NodeSize,
		LabelsVisible:   !cfg.UI.LabelsHidden,
	}
}

// runServe exposes the interactive page over HTTP. The page is regenerated on
// every request so a browser reload always reflects the dataset on disk, and
// /data.json answers the page's refresh probe with no-store headers.
func runServe(addr, title string, cfg config.Config, load func() (*model.Dataset, error)) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		ds, err := load()
		if err != nil {
			http.Error(w, fmt.Sprintf("load dataset: %v", err), http.StatusInternalServerError)
			return
		}
		page, err := export.RenderHTML(htmlOptions(ds, graph.ComputeInsights(ds), cfg, title, "", "/data.json"))
		if err != nil {
			http.Error(w, fmt.Sprintf("render page: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprint(w, page)
	})

	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		ds, err := load()
		if err != nil {
			http.Error(w, fmt.Sprintf("load dataset: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(ds)
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Serving organization network on http://%s\n", displayAddr(addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set OW_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("OW_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
