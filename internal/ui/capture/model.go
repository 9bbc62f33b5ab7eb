package capture

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/theme"
)

// RecordSubmittedMsg is dispatched when a new record is captured via the form.
type RecordSubmittedMsg struct {
	Input    model.RecordInput
	Optimize bool
}

// RecordEditedMsg is dispatched when an existing record is edited via the form.
type RecordEditedMsg struct {
	RecordID string
	Patch    model.RecordPatch
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title      string
	content    string
	recordType string
	category   string
	priority   string
	status     string
	dueDate    string
	optimize   bool
}

// Model is the Bubble Tea model for the capture/edit form.
type Model struct {
	form        *huh.Form
	fb          *formBindings
	editMode    bool
	editID      string
	hadDue      bool
	aiAvailable bool
	width       int
	height      int
}

// New creates a new capture form model. aiAvailable controls whether the
// "polish with AI" toggle is offered.
func New(aiAvailable bool, width, height int) Model {
	return Model{
		fb:          &formBindings{},
		aiAvailable: aiAvailable,
		width:       width,
		height:      height,
	}
}

// StartCapture initializes the form for capturing a new record.
func (m *Model) StartCapture() tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.fb.title = ""
	m.fb.content = ""
	m.fb.recordType = model.TypeIdea
	m.fb.category = "Inbox"
	m.fb.priority = model.PriorityNormal
	m.fb.status = model.StatusInbox
	m.fb.dueDate = ""
	m.fb.optimize = false
	m.hadDue = false
	m.form = m.buildCaptureForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing record.
func (m *Model) StartEdit(rec model.Record) tea.Cmd {
	m.editMode = true
	m.editID = rec.ID
	m.fb.title = rec.Title
	m.fb.content = rec.Content
	m.fb.recordType = rec.Type
	m.fb.category = rec.Category
	m.fb.priority = rec.Priority
	m.fb.status = rec.Status
	if rec.DueDate != nil {
		m.fb.dueDate = rec.DueDate.Format("2006-01-02")
	} else {
		m.fb.dueDate = ""
	}
	m.hadDue = rec.DueDate != nil
	m.form = m.buildEditForm()
	return m.form.Init()
}

// Update handles messages for the capture form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the capture form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Capture"
	if m.editMode {
		titleText = "Edit Record"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildCaptureForm() *huh.Form {
	fields := m.coreFields()
	if m.aiAvailable {
		fields = append(fields,
			huh.NewConfirm().
				Title("Polish with AI").
				Description("Rewrite the title and content before saving").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.optimize),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildEditForm() *huh.Form {
	fields := m.coreFields()
	fields = append(fields,
		huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption("Inbox", model.StatusInbox),
				huh.NewOption("Todo", model.StatusTodo),
				huh.NewOption("Doing", model.StatusDoing),
				huh.NewOption("Done", model.StatusDone),
			).
			Value(&m.fb.status),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) coreFields() []huh.Field {
	categoryOpts := make([]huh.Option[string], len(model.Categories))
	for i, c := range model.Categories {
		categoryOpts[i] = huh.NewOption(c, c)
	}

	return []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("Optional - derived from content when empty").
			Value(&m.fb.title),
		huh.NewText().
			Title("Content").
			Placeholder("What's on your mind? Use #tags inline.").
			Value(&m.fb.content).
			Validate(m.validateContent),
		huh.NewSelect[string]().
			Title("Type").
			Options(
				huh.NewOption("Idea", model.TypeIdea),
				huh.NewOption("Task", model.TypeTask),
				huh.NewOption("Note", model.TypeNote),
				huh.NewOption("Journal", model.TypeJournal),
			).
			Value(&m.fb.recordType),
		huh.NewSelect[string]().
			Title("Category").
			Options(categoryOpts...).
			Value(&m.fb.category),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Normal", model.PriorityNormal),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
	}
}

// validateContent requires at least one of title and content, since the
// title can be derived from content but not from nothing.
func (m *Model) validateContent(s string) error {
	if strings.TrimSpace(s) == "" && strings.TrimSpace(m.fb.title) == "" {
		return fmt.Errorf("give it a title or some content")
	}
	return nil
}

func (m Model) handleSubmit() tea.Cmd {
	dueDate := parseDueDate(m.fb.dueDate)

	if m.editMode {
		// Blanking a previously set date means "remove it", which is a
		// different patch than leaving the field untouched. A zero time
		// is the removal marker.
		if dueDate == nil && m.hadDue {
			dueDate = &time.Time{}
		}
		patch := model.RecordPatch{
			Title:    &m.fb.title,
			Content:  &m.fb.content,
			Type:     &m.fb.recordType,
			Category: &m.fb.category,
			Priority: &m.fb.priority,
			Status:   &m.fb.status,
			DueDate:  dueDate,
		}
		id := m.editID
		return func() tea.Msg { return RecordEditedMsg{RecordID: id, Patch: patch} }
	}

	input := model.RecordInput{
		Title:    m.fb.title,
		Content:  m.fb.content,
		Type:     m.fb.recordType,
		Category: m.fb.category,
		Priority: m.fb.priority,
		Status:   model.StatusInbox,
		DueDate:  dueDate,
	}
	optimize := m.fb.optimize
	return func() tea.Msg { return RecordSubmittedMsg{Input: input, Optimize: optimize} }
}

func parseDueDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
