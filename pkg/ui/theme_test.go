package ui

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/orgweave/orgweave/pkg/model"
)

func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	// Check a few known colors are set (not zero value)
	if isColorEmpty(theme.Primary) {
		t.Error("DefaultTheme Primary color is empty")
	}
	if isColorEmpty(theme.Corporation) {
		t.Error("DefaultTheme Corporation color is empty")
	}
	// Profile-aware styles are wired at construction
	if !theme.StatusError.GetBold() {
		t.Error("StatusError style should be bold")
	}
	if !theme.HubMarker.GetBold() {
		t.Error("HubMarker style should be bold")
	}
}

func isColorEmpty(c lipgloss.AdaptiveColor) bool {
	return c.Light == "" && c.Dark == ""
}

func TestTypeColor(t *testing.T) {
	theme := TestTheme()

	tests := []struct {
		typ  model.OrgType
		want lipgloss.AdaptiveColor
	}{
		{model.TypeCorporation, theme.Corporation},
		{model.TypeEducation, theme.Education},
		{model.TypeNonProfit, theme.NonProfit},
		{model.TypeGovernment, theme.Government},
		{model.TypeSmallBusiness, theme.SmallBusiness},
		{model.TypeInvestor, theme.Investor},
		{model.TypeCategory, theme.Category},
		{model.OrgType("mystery"), theme.Subtext},
	}

	for _, tt := range tests {
		if got := theme.TypeColor(tt.typ); got != tt.want {
			t.Errorf("TypeColor(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestTypeIcon(t *testing.T) {
	theme := TestTheme()

	tests := []struct {
		typ      model.OrgType
		wantIcon string
		wantCol  lipgloss.AdaptiveColor
	}{
		{model.TypeCorporation, "C", theme.Corporation},
		{model.TypeEducation, "E", theme.Education},
		{model.TypeNonProfit, "N", theme.NonProfit},
		{model.TypeGovernment, "G", theme.Government},
		{model.TypeSmallBusiness, "S", theme.SmallBusiness},
		{model.TypeInvestor, "I", theme.Investor},
		{model.TypeCategory, "·", theme.Category},
		{model.OrgType("mystery"), "·", theme.Subtext},
	}

	for _, tt := range tests {
		icon, col := theme.TypeIcon(tt.typ)
		if icon != tt.wantIcon {
			t.Errorf("TypeIcon(%q) icon = %q, want %q", tt.typ, icon, tt.wantIcon)
		}
		if col != tt.wantCol {
			t.Errorf("TypeIcon(%q) color = %v, want %v", tt.typ, col, tt.wantCol)
		}
	}
}

func TestColorProfileDetection(t *testing.T) {
	// TermProfile is set at init(); just verify it's a valid value
	valid := map[colorprofile.Profile]bool{
		colorprofile.Unknown:   true,
		colorprofile.NoTTY:     true,
		colorprofile.ASCII:     true,
		colorprofile.ANSI:      true,
		colorprofile.ANSI256:   true,
		colorprofile.TrueColor: true,
	}
	if !valid[TermProfile] {
		t.Errorf("TermProfile has unexpected value: %d", TermProfile)
	}
}

func TestThemeBg(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.TrueColor
	if _, ok := ThemeBg("#282A36").(lipgloss.NoColor); ok {
		t.Error("ThemeBg should return hex color in TrueColor mode, got NoColor")
	}

	TermProfile = colorprofile.ANSI256
	if _, ok := ThemeBg("#282A36").(lipgloss.NoColor); !ok {
		t.Error("ThemeBg should return NoColor below TrueColor")
	}

	TermProfile = colorprofile.ANSI
	if _, ok := ThemeBg("#282A36").(lipgloss.NoColor); !ok {
		t.Error("ThemeBg should return NoColor in ANSI mode")
	}
}

func TestThemeFg(t *testing.T) {
	saved := TermProfile
	defer func() { TermProfile = saved }()

	TermProfile = colorprofile.TrueColor
	if _, ok := ThemeFg("#FF5555").(lipgloss.ANSIColor); ok {
		t.Error("ThemeFg should return hex color in TrueColor mode, got ANSIColor")
	}

	TermProfile = colorprofile.ANSI256
	if _, ok := ThemeFg("#FF5555").(lipgloss.ANSIColor); ok {
		t.Error("ThemeFg should return hex color in ANSI256 mode, got ANSIColor")
	}

	TermProfile = colorprofile.ANSI
	got, ok := ThemeFg("#FF5555").(lipgloss.ANSIColor)
	if !ok {
		t.Fatalf("ThemeFg should return ANSIColor in ANSI mode, got %T", ThemeFg("#FF5555"))
	}
	if got != lipgloss.ANSIColor(7) {
		t.Errorf("ThemeFg should return ANSI white (7) in ANSI mode, got %d", got)
	}
}
