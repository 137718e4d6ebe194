package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// WizardConfig holds the choices collected by the export wizard.
type WizardConfig struct {
	Format     string // "html", "svg", "png", "bundle"
	Title      string
	OutputPath string
	ShowLabels bool
}

// Wizard walks the user through an export interactively.
type Wizard struct {
	config *WizardConfig
}

// NewWizard creates an export wizard with defaults.
func NewWizard() *Wizard {
	return &Wizard{
		config: &WizardConfig{
			Format:     "html",
			ShowLabels: true,
		},
	}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run executes the interactive wizard flow and returns the collected config.
func (w *Wizard) Run() (*WizardConfig, error) {
	defaultTitle := "Organization Network"
	title := defaultTitle

	cwd, _ := os.Getwd()
	suggestedPath := filepath.Join(cwd, "network.html")
	outputPath := suggestedPath

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Export format").
				Options(
					huh.NewOption("Interactive HTML (force-directed graph)", "html"),
					huh.NewOption("SVG snapshot", "svg"),
					huh.NewOption("PNG snapshot", "png"),
					huh.NewOption("Bundle (all formats)", "bundle"),
				).
				Value(&w.config.Format),
			huh.NewInput().
				Title("Title").
				Value(&title).
				Placeholder(defaultTitle),
			huh.NewInput().
				Title("Output path").
				Value(&outputPath).
				Placeholder(suggestedPath),
			huh.NewConfirm().
				Title("Show node labels?").
				Value(&w.config.ShowLabels),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("export wizard: %w", err)
	}

	if title == "" {
		title = defaultTitle
	}
	w.config.Title = title

	if outputPath == "" {
		outputPath = suggestedPath
	}
	// Bundle exports take a directory, everything else a file
	if w.config.Format == "bundle" {
		if filepath.Ext(outputPath) != "" {
			outputPath = filepath.Dir(outputPath)
		}
	} else if ext := filepath.Ext(outputPath); ext == "" || ext == ".html" {
		if w.config.Format != "html" {
			outputPath = trimExt(outputPath) + "." + w.config.Format
		}
	}
	w.config.OutputPath = outputPath

	return w.config, nil
}

func trimExt(p string) string {
	return p[:len(p)-len(filepath.Ext(p))]
}
