// Package ui implements the terminal interface: a filterable organization
// list, a connection-focused graph pane, and a detail overlay, all driven by
// the shared view state.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/orgweave/orgweave/pkg/config"
	"github.com/orgweave/orgweave/pkg/model"
	"github.com/orgweave/orgweave/pkg/store"
	"github.com/orgweave/orgweave/pkg/view"
	"github.com/orgweave/orgweave/pkg/watcher"
)

// viewMode selects the main pane content.
type viewMode int

const (
	modeList viewMode = iota
	modeGraph
)

// FileChangedMsg is sent when the dataset file changes on disk
type FileChangedMsg struct{}

// ReloadedMsg carries the result of a dataset reload
type ReloadedMsg struct {
	Generation uint64
	Err        error
}

// statusClearMsg clears a temporary status message
type statusClearMsg struct{}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd reloads the dataset via the given loader and replaces the store
// contents wholesale. The previous dataset is discarded; whichever reload
// lands last wins.
func ReloadCmd(load func() (*model.Dataset, error), st *store.Store) tea.Cmd {
	return func() tea.Msg {
		ds, err := load()
		if err != nil {
			return ReloadedMsg{Err: err}
		}
		st.Replace(ds)
		return ReloadedMsg{Generation: st.Generation()}
	}
}

func statusClearCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

// Options configures a new Model.
type Options struct {
	// Watcher enables live reload when non-nil.
	Watcher *watcher.Watcher
	// Reload reloads the dataset from its source. Required for live reload
	// and the manual reload key.
	Reload func() (*model.Dataset, error)
	// Config carries UI preferences.
	Config config.Config
}

// Model is the main Bubble Tea model for orgweave
type Model struct {
	store   *store.Store
	state   *view.State
	watcher *watcher.Watcher
	reload  func() (*model.Dataset, error)

	list        list.Model
	searchInput textinput.Model
	viewport    viewport.Model
	theme       Theme

	mode       viewMode
	searching  bool
	showDetail bool
	ready      bool
	width      int
	height     int

	// Status message (for temporary feedback)
	statusMsg     string
	statusIsError bool
}

// NewModel builds the TUI model over a populated store.
func NewModel(st *store.Store, opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	state := view.NewState()
	if opts.Config.UI.LabelsHidden {
		state.LabelsVisible = false
	}
	if opts.Config.UI.NodeSize > 0 {
		state.NodeSize = opts.Config.UI.NodeSize
	}
	if opts.Config.UI.LinkDistance > 0 {
		state.LinkDistance = opts.Config.UI.LinkDistance
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(theme.Primary).
		BorderLeftForeground(theme.Primary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(theme.Secondary).
		BorderLeftForeground(theme.Primary)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Organizations"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	// Built-in fuzzy filtering is off: search goes through the shared view
	// state so the graph pane and exports see the same filtered set.
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.Header

	ti := textinput.New()
	ti.Placeholder = "Search organizations..."
	ti.Prompt = "/ "
	ti.CharLimit = 120

	mode := modeList
	if opts.Config.UI.DefaultView == "graph" {
		mode = modeGraph
	}

	m := Model{
		store:       st,
		state:       state,
		watcher:     opts.Watcher,
		reload:      opts.Reload,
		list:        l,
		searchInput: ti,
		theme:       theme,
		mode:        mode,
	}
	m.refreshItems()
	return m
}

// State exposes the view state for tests and adapters.
func (m *Model) State() *view.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(msg.Width, msg.Height-4)
		m.viewport = viewport.New(msg.Width-4, msg.Height-6)
		if m.showDetail {
			m.setDetailContent()
		}
		return m, nil

	case FileChangedMsg:
		cmds := []tea.Cmd{WatchFileCmd(m.watcher)}
		if m.reload != nil {
			cmds = append(cmds, ReloadCmd(m.reload, m.store))
		}
		return m, tea.Batch(cmds...)

	case ReloadedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Reload failed: %v", msg.Err)
			m.statusIsError = true
			return m, statusClearCmd()
		}
		// Selection and filters survive a reload; the selected org may no
		// longer exist, in which case the detail overlay closes.
		m.refreshItems()
		if m.state.SelectedID != "" && m.snapshot().Index.Org(m.state.SelectedID) == nil {
			m.state.DeselectNode()
			m.showDetail = false
		} else if m.showDetail {
			m.setDetailContent()
		}
		m.statusMsg = "Data reloaded"
		m.statusIsError = false
		return m, statusClearCmd()

	case statusClearMsg:
		m.statusMsg = ""
		m.statusIsError = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		if m.showDetail {
			m.showDetail = false
			return m, nil
		}
		if m.state.SelectedID != "" {
			m.state.DeselectNode()
			return m, nil
		}
		if m.state.HasActiveFilters() {
			m.clearFilters()
		}
		return m, nil

	case "/":
		m.searching = true
		m.searchInput.SetValue(m.state.SearchTerm)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case "t":
		m.cycleTypeFilter()
		return m, nil

	case "s":
		m.state.SetSortKey(m.state.SortKey.Next())
		m.refreshItems()
		return m, nil

	case "c":
		m.clearFilters()
		return m, nil

	case "L":
		m.state.ToggleLabels()
		return m, nil

	case "g", "tab":
		if m.mode == modeList {
			m.mode = modeGraph
			m.syncSelectionFromList()
		} else {
			m.mode = modeList
		}
		return m, nil

	case "enter":
		m.syncSelectionFromList()
		if m.state.SelectedID != "" {
			m.showDetail = true
			m.setDetailContent()
		}
		return m, nil

	case "y":
		return m, m.copyContact()

	case "r":
		if m.reload != nil {
			return m, ReloadCmd(m.reload, m.store)
		}
		return m, nil
	}

	if m.showDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.mode == modeGraph {
		m.syncSelectionFromList()
	}
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		if m.state.SetSearchTerm("") {
			m.refreshItems()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.state.SetSearchTerm(m.searchInput.Value()) {
		m.refreshItems()
	}
	return m, cmd
}

// cycleTypeFilter steps through no-filter followed by each type present in
// the current dataset.
func (m *Model) cycleTypeFilter() {
	snap := m.snapshot()
	counts := snap.Dataset.TypeCounts()

	var present []string
	for _, t := range model.OrgTypes {
		if counts[t] > 0 {
			present = append(present, string(t))
		}
	}
	if len(present) == 0 {
		return
	}

	next := ""
	if m.state.TypeFilter == "" {
		next = present[0]
	} else {
		for i, t := range present {
			if t == m.state.TypeFilter && i+1 < len(present) {
				next = present[i+1]
				break
			}
		}
	}
	m.state.SetTypeFilter(next)
	m.refreshItems()
}

func (m *Model) clearFilters() {
	m.state.ClearFilters()
	m.searchInput.SetValue("")
	m.refreshItems()
}

func (m *Model) snapshot() *store.Snapshot {
	return m.store.Snapshot()
}

// refreshItems recomputes the visible list from the full dataset and the
// current view state.
func (m *Model) refreshItems() {
	snap := m.snapshot()
	orgs := view.FilterAndSort(snap.Dataset.Organizations, m.state)

	items := make([]list.Item, len(orgs))
	for i, org := range orgs {
		items[i] = OrgItem{
			Org:    org,
			Degree: snap.Index.Degree(org.ID),
		}
	}
	m.list.SetItems(items)
}

// syncSelectionFromList mirrors the list cursor into the shared selection.
func (m *Model) syncSelectionFromList() {
	item, ok := m.list.SelectedItem().(OrgItem)
	if !ok {
		m.state.DeselectNode()
		return
	}
	m.state.SelectNode(item.Org.ID)
}

func (m *Model) copyContact() tea.Cmd {
	item, ok := m.list.SelectedItem().(OrgItem)
	if !ok {
		return nil
	}
	text := item.Org.Email
	if text == "" {
		text = item.Org.ContactPerson
	}
	if text == "" {
		m.statusMsg = "No contact info to copy"
		m.statusIsError = true
		return statusClearCmd()
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard: %v", err)
		m.statusIsError = true
		return statusClearCmd()
	}
	m.statusMsg = fmt.Sprintf("Copied %q", text)
	m.statusIsError = false
	return statusClearCmd()
}

func (m *Model) setDetailContent() {
	md := m.detailMarkdown()

	width := m.viewport.Width
	if width <= 0 {
		width = 76
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.viewport.SetContent(md)
		return
	}
	rendered, err := r.Render(md)
	if err != nil {
		m.viewport.SetContent(md)
		return
	}
	m.viewport.SetContent(rendered)
	m.viewport.GotoTop()
}

// detailMarkdown builds the markdown document for the detail overlay.
func (m *Model) detailMarkdown() string {
	snap := m.snapshot()
	detail, err := snap.Index.DetailView(m.state.SelectedID)
	if err != nil {
		return fmt.Sprintf("# Not found\n\n%v", err)
	}
	org := detail.Organization

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", org.Name)
	fmt.Fprintf(&sb, "**Type:** %s\n\n", org.Type.Label())

	if org.ContactPerson != "" {
		fmt.Fprintf(&sb, "- Contact: %s\n", org.ContactPerson)
	}
	if org.Email != "" {
		fmt.Fprintf(&sb, "- Email: %s\n", org.Email)
	}
	if org.Phone != "" {
		fmt.Fprintf(&sb, "- Phone: %s\n", org.Phone)
	}
	if org.Website != "" {
		fmt.Fprintf(&sb, "- Website: %s\n", org.Website)
	}
	if org.Address != "" {
		fmt.Fprintf(&sb, "- Address: %s\n", org.Address)
	}
	if len(org.Tags) > 0 {
		fmt.Fprintf(&sb, "- Tags: %s\n", strings.Join(org.Tags, ", "))
	}
	sb.WriteString("\n")

	if org.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", org.Description)
	}

	if len(detail.Related) > 0 {
		fmt.Fprintf(&sb, "## Relationships (%d)\n\n", len(detail.Related))
		for _, entry := range detail.Related {
			fmt.Fprintf(&sb, "- %s\n", entry.Describe(org.Name))
		}
	} else {
		sb.WriteString("## Relationships\n\nNo connections.\n")
	}

	return sb.String()
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.showDetail {
		return m.renderDetailOverlay()
	}

	var content string
	switch m.mode {
	case modeGraph:
		content = m.renderGraphView(m.width, m.height-2, m.theme)
	default:
		content = m.list.View()
	}

	var sections []string
	if m.searching {
		sections = append(sections, m.searchInput.View())
	}
	sections = append(sections, content, m.statusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderDetailOverlay() string {
	title := m.theme.Header.Render(" Organization Detail ")
	body := m.viewport.View()
	help := m.theme.MutedText.Render("esc close • ↑/↓ scroll • y copy contact")
	return lipgloss.JoinVertical(lipgloss.Left, title, body, help)
}

// statusBar renders the bottom bar: counts, active filters, sort, and any
// transient message.
func (m Model) statusBar() string {
	snap := m.snapshot()
	total := len(snap.Dataset.Organizations)
	shown := len(m.list.Items())

	parts := []string{
		view.CountMessage(shown, total, m.state.HasActiveFilters()),
		fmt.Sprintf("Sort: %s", m.state.SortKey),
	}
	if m.state.TypeFilter != "" {
		parts = append(parts, fmt.Sprintf("Type: %s", model.OrgType(m.state.TypeFilter).Label()))
	}
	if m.state.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", m.state.SearchTerm))
	}
	if !m.state.LabelsVisible {
		parts = append(parts, "Labels off")
	}

	bar := m.theme.SecondaryText.Render(strings.Join(parts, " • "))
	if m.statusMsg != "" {
		style := m.theme.StatusNote
		if m.statusIsError {
			style = m.theme.StatusError
		}
		bar = bar + "  " + style.Render(m.statusMsg)
	}
	return bar
}
