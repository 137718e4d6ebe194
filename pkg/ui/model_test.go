package ui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orgweave/orgweave/pkg/model"
	"github.com/orgweave/orgweave/pkg/store"
)

func testDataset() *model.Dataset {
	return &model.Dataset{
		Organizations: []model.Organization{
			{ID: "acme", Name: "Acme Corp", Type: model.TypeCorporation, ContactPerson: "Pat Jones", Email: "pat@acme.test"},
			{ID: "uni", Name: "State University", Type: model.TypeEducation},
			{ID: "food", Name: "Food Bank", Type: model.TypeNonProfit, Description: "Regional food distribution."},
		},
		Relationships: []model.Relationship{
			{Source: "acme", Target: "uni", Type: "partnership"},
			{Source: "food", Target: "acme", Type: "funding"},
		},
	}
}

func testModel(t *testing.T) Model {
	t.Helper()
	st := store.New(testDataset())
	return NewModel(st, Options{})
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func TestNewModelShowsAllOrganizations(t *testing.T) {
	m := testModel(t)
	if got := len(m.list.Items()); got != 3 {
		t.Errorf("expected 3 items, got %d", got)
	}
	// Sorted by name: Acme Corp, Food Bank, State University
	first, ok := m.list.Items()[0].(OrgItem)
	if !ok || first.Org.Name != "Acme Corp" {
		t.Errorf("expected Acme Corp first, got %+v", m.list.Items()[0])
	}
}

func TestSearchNarrowsList(t *testing.T) {
	m := sized(t, testModel(t))

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = updated.(Model)
	if !m.searching {
		t.Fatal("expected search mode")
	}

	for _, r := range "food" {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	if got := len(m.list.Items()); got != 1 {
		t.Fatalf("expected 1 item for 'food', got %d", got)
	}

	// Esc aborts the search and restores the full list
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if got := len(m.list.Items()); got != 3 {
		t.Errorf("expected full list after esc, got %d items", got)
	}
}

func TestCycleTypeFilter(t *testing.T) {
	m := sized(t, testModel(t))

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	m = updated.(Model)
	if m.state.TypeFilter != string(model.TypeCorporation) {
		t.Fatalf("expected first present type, got %q", m.state.TypeFilter)
	}
	if got := len(m.list.Items()); got != 1 {
		t.Errorf("expected 1 corporation, got %d", got)
	}

	// Cycling past the last present type clears the filter
	for i := 0; i < 2; i++ {
		updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
		m = updated.(Model)
	}
	if m.state.TypeFilter != string(model.TypeNonProfit) {
		t.Fatalf("expected non_profit after three cycles, got %q", m.state.TypeFilter)
	}
	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	m = updated.(Model)
	if m.state.TypeFilter != "" {
		t.Errorf("expected filter cleared after full cycle, got %q", m.state.TypeFilter)
	}
}

func TestClearFiltersResetsEverything(t *testing.T) {
	m := sized(t, testModel(t))
	m.state.SetSearchTerm("acme")
	m.state.SetTypeFilter("corporation")
	m.state.SetSortKey(m.state.SortKey.Next())
	m.refreshItems()

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = updated.(Model)

	if m.state.HasActiveFilters() {
		t.Error("expected no active filters after clear")
	}
	if m.state.SortKey.String() != "Name" {
		t.Errorf("expected default sort, got %s", m.state.SortKey)
	}
	if got := len(m.list.Items()); got != 3 {
		t.Errorf("expected full list, got %d items", got)
	}
}

func TestEnterOpensDetail(t *testing.T) {
	m := sized(t, testModel(t))

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.showDetail {
		t.Fatal("expected detail overlay")
	}
	if m.state.SelectedID != "acme" {
		t.Errorf("expected acme selected, got %q", m.state.SelectedID)
	}

	updated, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.showDetail {
		t.Error("expected detail closed after esc")
	}
	if m.state.SelectedID == "" {
		t.Error("first esc closes the overlay but keeps the selection")
	}
}

func TestDetailMarkdownContents(t *testing.T) {
	m := sized(t, testModel(t))
	m.state.SelectNode("acme")

	md := m.detailMarkdown()
	for _, want := range []string{"Acme Corp", "Corporation", "Pat Jones", "pat@acme.test", "Relationships (2)"} {
		if !strings.Contains(md, want) {
			t.Errorf("detail markdown missing %q:\n%s", want, md)
		}
	}
	if !strings.Contains(md, "partnership between Acme Corp and State University") {
		t.Errorf("expected mutual phrasing for partnership:\n%s", md)
	}
	if !strings.Contains(md, "funding from Food Bank") {
		t.Errorf("expected incoming phrasing for funding:\n%s", md)
	}
}

func TestReloadDropsVanishedSelection(t *testing.T) {
	st := store.New(testDataset())
	m := sized(t, NewModel(st, Options{}))
	m.state.SelectNode("food")
	m.showDetail = true

	st.Replace(&model.Dataset{
		Organizations: []model.Organization{
			{ID: "acme", Name: "Acme Corp", Type: model.TypeCorporation},
		},
	})
	updated, _ := m.Update(ReloadedMsg{Generation: st.Generation()})
	m = updated.(Model)

	if m.state.SelectedID != "" || m.showDetail {
		t.Errorf("expected selection and detail cleared, got id=%q detail=%v",
			m.state.SelectedID, m.showDetail)
	}
	if got := len(m.list.Items()); got != 1 {
		t.Errorf("expected reloaded list of 1, got %d", got)
	}
}

func TestReloadErrorShowsStatus(t *testing.T) {
	m := sized(t, testModel(t))
	updated, _ := m.Update(ReloadedMsg{Err: errFake})
	m = updated.(Model)
	if !m.statusIsError || m.statusMsg == "" {
		t.Errorf("expected error status, got %q (isError=%v)", m.statusMsg, m.statusIsError)
	}
}

type fakeErr struct{}

func (fakeErr) Error() string { return "boom" }

var errFake = fakeErr{}

func TestStatusBarMentionsCounts(t *testing.T) {
	m := sized(t, testModel(t))
	bar := m.statusBar()
	if !strings.Contains(bar, "3 organizations") {
		t.Errorf("status bar missing count: %q", bar)
	}

	m.state.SetSearchTerm("acme")
	m.refreshItems()
	bar = m.statusBar()
	if !strings.Contains(bar, "Showing 1 of 3 organizations") {
		t.Errorf("status bar missing filtered count: %q", bar)
	}
}

func TestGraphViewRendersNeighborhood(t *testing.T) {
	m := sized(t, testModel(t))
	m.state.SelectNode("acme")

	out := m.renderGraphView(100, 40, m.theme)
	for _, want := range []string{"Acme Corp", "MUTUAL", "INCOMING", "Metrics"} {
		if !strings.Contains(out, want) {
			t.Errorf("graph view missing %q", want)
		}
	}
	// Acme is the most connected org, so the focal box carries the hub
	// marker and its type icon.
	if !strings.Contains(out, "★") {
		t.Errorf("graph view missing hub marker")
	}
	if !strings.Contains(out, "C Corporation") {
		t.Errorf("graph view missing type icon on focal node")
	}
}

func TestGraphViewNoSelection(t *testing.T) {
	m := sized(t, testModel(t))
	out := m.renderGraphView(80, 24, m.theme)
	if !strings.Contains(out, "No organization selected") {
		t.Errorf("expected placeholder, got %q", out)
	}
}

func TestUnconnectedOverflowCountsSkippedEntries(t *testing.T) {
	// A type filter that excludes the focal org and its neighbor: the
	// overflow marker must count the entries actually left out, not be
	// derived from the connected-set size.
	ds := &model.Dataset{
		Organizations: []model.Organization{
			{ID: "hub", Name: "City Hall", Type: model.TypeGovernment},
			{ID: "c1", Name: "State Agency", Type: model.TypeGovernment},
		},
		Relationships: []model.Relationship{
			{Source: "hub", Target: "c1", Type: "funding"},
		},
	}
	for i := 1; i <= 14; i++ {
		ds.Organizations = append(ds.Organizations, model.Organization{
			ID:   fmt.Sprintf("corp%02d", i),
			Name: fmt.Sprintf("Org%02d", i),
			Type: model.TypeCorporation,
		})
	}

	m := NewModel(store.New(ds), Options{})
	m.state.SelectNode("hub")
	m.state.SetTypeFilter(string(model.TypeCorporation))

	out := m.renderUnconnected("hub", 1000, m.theme)
	if !strings.Contains(out, "+2 more") {
		t.Errorf("expected +2 more, got %q", out)
	}
}

func TestOrgItemFilterValue(t *testing.T) {
	item := OrgItem{Org: model.Organization{
		Name:          "Acme Corp",
		Type:          model.TypeCorporation,
		ContactPerson: "Pat Jones",
		Tags:          []string{"tech"},
	}}
	fv := item.FilterValue()
	for _, want := range []string{"Acme Corp", "corporation", "Pat Jones", "tech"} {
		if !strings.Contains(fv, want) {
			t.Errorf("FilterValue missing %q: %q", want, fv)
		}
	}
}

func TestTruncateHelpers(t *testing.T) {
	if got := truncate("hello world", 8); got != "hello w…" {
		t.Errorf("truncate: got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate should not touch short strings: got %q", got)
	}
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight: got %q", got)
	}
}
