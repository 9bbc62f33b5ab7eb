package recordlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/theme"
)

// RecordItem wraps a model.Record so it can be used in a bubbles/list.
type RecordItem struct {
	Record model.Record
}

// FilterValue returns the string used for fuzzy filtering.
func (i RecordItem) FilterValue() string {
	return i.Record.Title + " " + strings.Join(i.Record.Tags, " ")
}

// Title returns the record title for the list.
func (i RecordItem) Title() string { return i.Record.Title }

// Description returns a short summary line for the list.
func (i RecordItem) Description() string {
	parts := []string{
		i.Record.Status,
		i.Record.Category,
		relativeTime(i.Record.CreatedAt),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering record rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single record row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(RecordItem)
	if !ok {
		return
	}

	rec := ri.Record
	isSelected := index == m.Index()

	typeGlyph := theme.TypeLabel(rec.Type)
	statusBadge := theme.StatusStyle(rec.Status).Render(rec.Status)
	priBadge := theme.PriorityStyle(rec.Priority).Render(priorityLabel(rec.Priority))

	title := rec.Title

	tagBadge := ""
	if len(rec.Tags) > 0 {
		display := rec.Tags
		if len(display) > 2 {
			display = append(display[:2:2], "…")
		}
		tagBadge = lipgloss.NewStyle().
			Foreground(theme.ColorIndigo).
			Render(" #" + strings.Join(display, " #"))
	}

	dueStr := ""
	if rec.DueDate != nil {
		if rec.DueDate.Before(time.Now()) && rec.Status != model.StatusDone {
			dueStr = theme.OverdueStyle.Render(" " + rec.DueDate.Format("Jan 02") + " !")
		} else {
			dueStr = theme.DueDateStyle.Render(" " + rec.DueDate.Format("Jan 02"))
		}
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("  " + relativeTime(rec.CreatedAt))

	line := fmt.Sprintf(
		"%s %s %s %s%s%s%s",
		typeGlyph, statusBadge, priBadge, title, tagBadge, dueStr, timeStr,
	)

	if rec.Status == model.StatusDone {
		line = theme.DimmedStyle.Render(line)
	}

	switch {
	case rec.Pending:
		line = theme.PendingItemStyle.Render(line + " ⋯")
	case isSelected:
		line = theme.SelectedItemStyle.Render(line)
	default:
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p string) string {
	switch p {
	case model.PriorityHigh:
		return "!!"
	case model.PriorityNormal:
		return "!"
	case model.PriorityLow:
		return "·"
	default:
		return "?"
	}
}
