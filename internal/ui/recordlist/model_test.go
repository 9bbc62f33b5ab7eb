package recordlist

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/keys"
	"github.com/nhle/lifeos/internal/model"
)

func testRecords() []model.Record {
	base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	due := base.Add(24 * time.Hour)
	return []model.Record{
		{ID: "a", Title: "Plan the week", Status: model.StatusInbox, Priority: model.PriorityNormal, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "b", Title: "Fix login bug", Status: model.StatusDoing, Priority: model.PriorityHigh, Tags: []string{"work"}, DueDate: &due, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "c", Title: "Read pragmatic programmer", Status: model.StatusTodo, Priority: model.PriorityLow, Content: "chapter notes #reading", CreatedAt: base.Add(time.Hour)},
		{ID: "d", Title: "Old done thing", Status: model.StatusDone, Priority: model.PriorityNormal, CreatedAt: base},
	}
}

func ids(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilteredByViewMode(t *testing.T) {
	m := Model{records: testRecords()}

	m.viewMode = ViewInbox
	assert.Equal(t, []string{"a"}, ids(m.filtered()))

	m.viewMode = ViewTasks
	assert.Equal(t, []string{"b", "c"}, ids(m.filtered()))

	m.viewMode = ViewAll
	assert.Len(t, m.filtered(), 4)
}

func TestFilteredByQuery(t *testing.T) {
	m := Model{records: testRecords(), viewMode: ViewAll}

	m.query = "login"
	assert.Equal(t, []string{"b"}, ids(m.filtered()), "matches titles")

	m.query = "reading"
	assert.Equal(t, []string{"c"}, ids(m.filtered()), "matches content tags")

	m.query = "WORK"
	assert.Equal(t, []string{"b"}, ids(m.filtered()), "case insensitive, matches tags")

	m.query = "nothing matches this"
	assert.Empty(t, m.filtered())
}

func TestSortRecords(t *testing.T) {
	recs := func() []model.Record {
		m := Model{records: testRecords(), viewMode: ViewAll}
		return m.filtered()
	}

	byCreated := recs()
	Model{sortIndex: 0}.sortRecords(byCreated)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(byCreated), "created sorts newest first")

	byPriority := recs()
	Model{sortIndex: 1}.sortRecords(byPriority)
	require.Equal(t, "b", byPriority[0].ID, "high priority first")
	assert.Equal(t, "c", byPriority[3].ID, "low priority last")

	byDue := recs()
	Model{sortIndex: 2}.sortRecords(byDue)
	assert.Equal(t, "b", byDue[0].ID, "dated records ahead of undated ones")

	byTitle := recs()
	Model{sortIndex: 3}.sortRecords(byTitle)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(byTitle))
}

func TestSearchAbsorbsBoundLetters(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetRecords(testRecords())

	require.False(t, m.SearchActive())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.SearchActive())

	// "d" deletes a record in normal mode; here it is query text.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.True(t, m.SearchActive())
	assert.Equal(t, "d", m.searchInput.Value())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.SearchActive())
	assert.Equal(t, "d", m.query)
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", relativeTime(now))
	assert.Equal(t, "5m ago", relativeTime(now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", relativeTime(now.Add(-3*time.Hour)))
	assert.Equal(t, "2d ago", relativeTime(now.Add(-49*time.Hour)))
}

func TestRecordItemFilterValue(t *testing.T) {
	item := RecordItem{Record: model.Record{Title: "Fix login bug", Tags: []string{"work", "auth"}}}
	v := item.FilterValue()
	assert.Contains(t, v, "Fix login bug")
	assert.Contains(t, v, "work")
	assert.Contains(t, v, "auth")
}
