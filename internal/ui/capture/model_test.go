package capture

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/model"
)

func submitMsg(t *testing.T, m Model) tea.Msg {
	t.Helper()
	cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	return cmd()
}

func TestEditBlankedDueDateClears(t *testing.T) {
	due := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	m := New(false, 80, 24)
	m.StartCapture() // stale capture state must not leak into the edit
	m.StartEdit(model.Record{ID: "rec-1", Title: "t", Content: "c", DueDate: &due})
	require.Equal(t, "2025-09-15", m.fb.dueDate)

	m.fb.dueDate = ""
	msg, ok := submitMsg(t, m).(RecordEditedMsg)
	require.True(t, ok)

	require.NotNil(t, msg.Patch.DueDate)
	assert.True(t, msg.Patch.DueDate.IsZero(), "blanked date becomes the clearing marker")
}

func TestEditWithoutDueDateStaysUnset(t *testing.T) {
	m := New(false, 80, 24)
	m.StartEdit(model.Record{ID: "rec-1", Title: "t", Content: "c"})

	msg, ok := submitMsg(t, m).(RecordEditedMsg)
	require.True(t, ok)
	assert.Nil(t, msg.Patch.DueDate, "never had a date, nothing to clear")
}

func TestEditKeepsEnteredDueDate(t *testing.T) {
	due := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	m := New(false, 80, 24)
	m.StartEdit(model.Record{ID: "rec-1", Title: "t", Content: "c", DueDate: &due})

	m.fb.dueDate = "2025-10-01"
	msg, ok := submitMsg(t, m).(RecordEditedMsg)
	require.True(t, ok)

	require.NotNil(t, msg.Patch.DueDate)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), *msg.Patch.DueDate)
}

func TestCaptureBlankDueDateIsNil(t *testing.T) {
	m := New(false, 80, 24)
	m.StartCapture()
	m.fb.title = "note"
	m.fb.content = "body"

	msg, ok := submitMsg(t, m).(RecordSubmittedMsg)
	require.True(t, ok)
	assert.Nil(t, msg.Input.DueDate)
}
