package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lifeos/internal/keys"
	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Model is the record detail view component.
type Model struct {
	record   *model.Record
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetRecord loads a record into the viewport.
func (m *Model) SetRecord(rec model.Record) {
	m.record = &rec
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// RecordID returns the id of the displayed record, if any.
func (m Model) RecordID() string {
	if m.record == nil {
		return ""
	}
	return m.record.ID
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.record == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No record selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	rec := m.record
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(rec.Title))

	statusBadge := theme.StatusStyle(rec.Status).Render(rec.Status)
	priBadge := theme.PriorityStyle(rec.Priority).Render(rec.Priority)
	typeBadge := theme.TypeLabel(rec.Type) + " " + rec.Type

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, typeBadge, "  ", statusBadge, "  ", priBadge,
	)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if rec.Category != "" {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Category:"),
			valStyle.Render(rec.Category),
		))
	}
	if len(rec.Tags) > 0 {
		sections = append(sections, fmt.Sprintf(
			"%s      %s",
			metaStyle.Render("Tags:"),
			valStyle.Render("#"+strings.Join(rec.Tags, " #")),
		))
	}
	if len(rec.NextActions) > 0 {
		sections = append(sections, fmt.Sprintf(
			"%s      %s",
			metaStyle.Render("Next:"),
			valStyle.Render(strings.Join(rec.NextActions, ", ")),
		))
	}
	if rec.DueDate != nil {
		due := rec.DueDate.Format("2006-01-02")
		if rec.IsOverdue() {
			due = theme.OverdueStyle.Render(due + " (overdue)")
		} else {
			due = valStyle.Render(due)
		}
		sections = append(sections, fmt.Sprintf(
			"%s       %s", metaStyle.Render("Due:"), due,
		))
	}
	if !rec.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Created:"),
			valStyle.Render(rec.CreatedAt.Format("2006-01-02 15:04")),
		))
	}
	if rec.Pending {
		sections = append(sections, metaStyle.Italic(true).Render(
			"Not yet confirmed by the backend",
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	sepWidth := m.width - 4
	if sepWidth > 80 {
		sepWidth = 80
	}
	if sepWidth < 1 {
		sepWidth = 1
	}
	separator := sepStyle.Render(strings.Repeat("─", sepWidth))
	sections = append(sections, "", separator, "")

	body := rec.Content
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No content")
	}
	sections = append(sections, body)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(sections, "\n"))
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.record != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
