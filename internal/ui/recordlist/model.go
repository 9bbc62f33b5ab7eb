package recordlist

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lifeos/internal/keys"
	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/theme"
)

// SelectedRecordMsg is sent when a user selects a record to view details.
type SelectedRecordMsg struct {
	RecordID string
}

// ViewMode selects which slice of records the list shows.
type ViewMode int

const (
	ViewInbox ViewMode = iota // status inbox only
	ViewTasks                 // status todo and doing
	ViewAll                   // everything
)

// sortModes defines the available sort modes cycled by Tab.
var sortModes = []string{
	"created",
	"priority",
	"due",
	"title",
}

// Model is the main record list view component.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	records     []model.Record
	viewMode    ViewMode
	sortIndex   int
	query       string
	searchMode  bool
	searchInput textinput.Model
	preview     bool
	width       int
	height      int
}

// New creates a new record list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search records..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		viewMode:    ViewInbox,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetRecords replaces the backing record slice and re-renders the list.
func (m *Model) SetRecords(records []model.Record) tea.Cmd {
	m.records = records
	return m.applyView()
}

// SetPreview toggles the sample-data banner.
func (m *Model) SetPreview(on bool) {
	m.preview = on
}

// SearchActive reports whether the search input has focus. While it
// does, every keystroke belongs to the query and global bindings must
// not fire.
func (m Model) SearchActive() bool {
	return m.searchMode
}

// SelectedRecord returns the currently highlighted record, if any.
func (m Model) SelectedRecord() (model.Record, bool) {
	item, ok := m.list.SelectedItem().(RecordItem)
	if !ok {
		return model.Record{}, false
	}
	return item.Record, true
}

// Update handles messages for the record list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(keyMsg)
		}
		return m.handleNormalKeys(keyMsg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		return m, m.applyView()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.applyView()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(RecordItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedRecordMsg{RecordID: item.Record.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ViewInbox):
		m.viewMode = ViewInbox
		return m, m.applyView()

	case key.Matches(msg, m.keys.ViewTasks):
		m.viewMode = ViewTasks
		return m, m.applyView()

	case key.Matches(msg, m.keys.ViewAll):
		m.viewMode = ViewAll
		return m, m.applyView()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		return m, m.applyView()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// applyView filters, sorts, and pushes the current records into the list.
func (m *Model) applyView() tea.Cmd {
	filtered := m.filtered()
	m.sortRecords(filtered)

	items := make([]list.Item, len(filtered))
	for i, rec := range filtered {
		items[i] = RecordItem{Record: rec}
	}

	m.list.Title = m.viewTitle()
	return m.list.SetItems(items)
}

func (m Model) filtered() []model.Record {
	var out []model.Record
	for _, rec := range m.records {
		switch m.viewMode {
		case ViewInbox:
			if rec.Status != model.StatusInbox {
				continue
			}
		case ViewTasks:
			if rec.Status != model.StatusTodo && rec.Status != model.StatusDoing {
				continue
			}
		}
		if m.query != "" && !matchesQuery(rec, m.query) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesQuery(rec model.Record, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(rec.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Content), q) {
		return true
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (m Model) sortRecords(records []model.Record) {
	switch sortModes[m.sortIndex] {
	case "priority":
		sort.SliceStable(records, func(i, j int) bool {
			return priorityRank(records[i].Priority) < priorityRank(records[j].Priority)
		})
	case "due":
		sort.SliceStable(records, func(i, j int) bool {
			di, dj := records[i].DueDate, records[j].DueDate
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return di.Before(*dj)
		})
	case "title":
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Title) < strings.ToLower(records[j].Title)
		})
	default: // created, newest first
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		})
	}
}

func priorityRank(p string) int {
	switch p {
	case model.PriorityHigh:
		return 0
	case model.PriorityNormal:
		return 1
	case model.PriorityLow:
		return 2
	default:
		return 3
	}
}

func (m Model) viewTitle() string {
	var title string
	switch m.viewMode {
	case ViewInbox:
		title = "Inbox"
	case ViewTasks:
		title = "Tasks"
	default:
		title = "All Records"
	}
	if m.query != "" {
		title += " /" + m.query
	}
	if sortModes[m.sortIndex] != "created" {
		title += " · by " + sortModes[m.sortIndex]
	}
	return title
}

// FilterSummary describes the active search filter for the status bar.
func (m Model) FilterSummary() string {
	if m.query == "" {
		return ""
	}
	return "search: " + m.query
}

// View renders the record list view.
func (m Model) View() string {
	var sections []string

	if m.preview {
		sections = append(sections, theme.PreviewBannerStyle.Render(
			"Sample data - press s to connect your table",
		))
	}

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		sections = append(sections, searchBar)
	}

	if len(m.list.Items()) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderEmptyState shows guidance text when no records are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No matching records.\nPress / to change the search, esc to clear.")
	}

	switch m.viewMode {
	case ViewInbox:
		return style.Render("Inbox zero.\n\nPress n to capture a thought.")
	case ViewTasks:
		return style.Render("No open tasks.\n\nPress 1 to triage your inbox.")
	default:
		return style.Render("Nothing here yet.\n\nPress n to capture your first record.")
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
