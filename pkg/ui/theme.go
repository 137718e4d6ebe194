package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/orgweave/orgweave/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals use the
// terminal's own background instead of a down-converted approximation.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Organization types
	Corporation   lipgloss.AdaptiveColor
	Education     lipgloss.AdaptiveColor
	NonProfit     lipgloss.AdaptiveColor
	Government    lipgloss.AdaptiveColor
	SmallBusiness lipgloss.AdaptiveColor
	Investor      lipgloss.AdaptiveColor
	Category      lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed styles, created once instead of per-frame
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	Dimmed        lipgloss.Style
	StatusNote    lipgloss.Style
	StatusError   lipgloss.Style
	HubMarker     lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Corporation:   lipgloss.AdaptiveColor{Light: "#2684FF", Dark: "#4C9AFF"}, // Blue
		Education:     lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		NonProfit:     lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Government:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red
		SmallBusiness: lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		Investor:      lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Category:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Dimmed = r.NewStyle().Foreground(t.Muted).Faint(true)

	// Transient status messages and the hub marker use fixed hexes, so they
	// go through the profile-aware helpers instead of adaptive colors.
	t.StatusNote = r.NewStyle().Foreground(t.Primary).Bold(true).Background(ThemeBg("#333"))
	t.StatusError = r.NewStyle().Foreground(ThemeFg("#FF5555")).Bold(true).Background(ThemeBg("#333"))
	t.HubMarker = r.NewStyle().Foreground(ThemeFg("#FFD700")).Bold(true)

	return t
}

// TypeColor returns the adaptive color for an organization type.
func (t Theme) TypeColor(typ model.OrgType) lipgloss.AdaptiveColor {
	switch typ {
	case model.TypeCorporation:
		return t.Corporation
	case model.TypeEducation:
		return t.Education
	case model.TypeNonProfit:
		return t.NonProfit
	case model.TypeGovernment:
		return t.Government
	case model.TypeSmallBusiness:
		return t.SmallBusiness
	case model.TypeInvestor:
		return t.Investor
	case model.TypeCategory:
		return t.Category
	default:
		return t.Subtext
	}
}

// TypeIcon returns a one-character marker and color for a type.
func (t Theme) TypeIcon(typ model.OrgType) (string, lipgloss.AdaptiveColor) {
	switch typ {
	case model.TypeCorporation:
		return "C", t.Corporation
	case model.TypeEducation:
		return "E", t.Education
	case model.TypeNonProfit:
		return "N", t.NonProfit
	case model.TypeGovernment:
		return "G", t.Government
	case model.TypeSmallBusiness:
		return "S", t.SmallBusiness
	case model.TypeInvestor:
		return "I", t.Investor
	case model.TypeCategory:
		return "·", t.Category
	default:
		return "·", t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests (uses stdout renderer).
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
