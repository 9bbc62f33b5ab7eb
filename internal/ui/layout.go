package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/theme"
)

// Layout owns the full-screen chrome: the title bar with the backend
// sync state, the pinned dashboard lines above the record list, and the
// key-hint status bar.
type Layout struct {
	Width  int
	Height int
}

// chromeRows is the rows taken by the title bar and the status bar.
const chromeRows = 2

// NewLayout creates a Layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left for the active view after the
// chrome.
func (l Layout) ContentHeight() int {
	return l.Height - chromeRows
}

// RenderHeader renders the title bar: the app name on the left, the
// sync state ("connected", "sample data", ...) on the right.
func (l Layout) RenderHeader(title, syncStatus string) string {
	gap := l.Width - lipgloss.Width(title) - lipgloss.Width(syncStatus) - 2
	if gap < 1 {
		gap = 1
	}
	return theme.HeaderStyle.
		Width(l.Width).
		Render(title + strings.Repeat(" ", gap) + syncStatus)
}

// RenderDashboard renders the pinned focus note and quick-link
// bookmarks shown above the record list. Returns "" when neither is
// configured.
func (l Layout) RenderDashboard(focusNote string, links []model.QuickLink) string {
	var lines []string

	if focusNote != "" {
		lines = append(lines, theme.FocusNoteStyle.Render("◎ "+focusNote))
	}

	if len(links) > 0 {
		parts := make([]string, len(links))
		for i, link := range links {
			parts[i] = link.Title + " " + link.URL
		}
		lines = append(lines, theme.HelpStyle.Render("↗ "+strings.Join(parts, "  ·  ")))
	}

	return strings.Join(lines, "\n")
}

// RenderStatusBar renders the bottom bar carrying either key hints or a
// transient status message.
func (l Layout) RenderStatusBar(hints string) string {
	return theme.StatusBarStyle.Width(l.Width).Render(hints)
}

// RenderWithFrame composes the full screen. An empty dashboard is
// omitted, so non-list views get the extra row back.
func (l Layout) RenderWithFrame(
	header string,
	dashboard string,
	content string,
	statusBar string,
) string {
	sections := make([]string, 0, 4)
	sections = append(sections, header)
	if dashboard != "" {
		sections = append(sections, dashboard)
	}
	sections = append(sections, content, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
