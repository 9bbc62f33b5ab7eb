package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/model"
)

func TestMirrorPrepend(t *testing.T) {
	m := New()
	m.ReplaceAll([]model.Record{
		{ID: "rec-1", Title: "existing", CreatedAt: time.Now().Add(-time.Hour)},
	})

	rec := m.Prepend(model.RecordInput{Content: "Capture this #now"})

	assert.True(t, IsTempID(rec.ID))
	assert.True(t, rec.Pending)
	assert.Equal(t, "Capture this #now", rec.Title)
	assert.Equal(t, []string{"now"}, rec.Tags)
	assert.Equal(t, model.StatusInbox, rec.Status)

	all := m.All()
	require.Len(t, all, 2)
	assert.Equal(t, rec.ID, all[0].ID, "optimistic entry sits at the head")
	assert.True(t, m.HasPending())
}

func TestMirrorPatch(t *testing.T) {
	m := New()
	m.ReplaceAll([]model.Record{
		{ID: "rec-1", Status: model.StatusInbox},
		{ID: "rec-2", Status: model.StatusInbox},
	})

	ok := m.Patch("rec-2", model.StatusPatch(model.StatusDoing))
	assert.True(t, ok)

	rec, found := m.Get("rec-2")
	require.True(t, found)
	assert.Equal(t, model.StatusDoing, rec.Status)

	// Untouched sibling keeps its state.
	other, _ := m.Get("rec-1")
	assert.Equal(t, model.StatusInbox, other.Status)

	assert.False(t, m.Patch("rec-404", model.StatusPatch(model.StatusDone)))
}

func TestMirrorRemove(t *testing.T) {
	m := New()
	m.ReplaceAll([]model.Record{{ID: "rec-1"}, {ID: "rec-2"}})

	assert.True(t, m.Remove("rec-1"))
	assert.Equal(t, 1, m.Len())
	_, found := m.Get("rec-1")
	assert.False(t, found)

	assert.False(t, m.Remove("rec-1"), "second remove is a no-op")
}

func TestMirrorReplaceAllSortsNewestFirst(t *testing.T) {
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	m := New()
	m.Prepend(model.RecordInput{Title: "optimistic"})

	m.ReplaceAll([]model.Record{
		{ID: "rec-old", CreatedAt: base},
		{ID: "rec-new", CreatedAt: base.Add(time.Hour)},
		{ID: "rec-mid", CreatedAt: base.Add(30 * time.Minute)},
	})

	all := m.All()
	require.Len(t, all, 3, "optimistic entries are discarded on refresh")
	assert.Equal(t, "rec-new", all[0].ID)
	assert.Equal(t, "rec-mid", all[1].ID)
	assert.Equal(t, "rec-old", all[2].ID)
	assert.False(t, m.HasPending())
}

func TestMirrorByStatus(t *testing.T) {
	m := New()
	m.ReplaceAll([]model.Record{
		{ID: "a", Status: model.StatusTodo},
		{ID: "b", Status: model.StatusDone},
		{ID: "c", Status: model.StatusDoing},
	})

	open := m.ByStatus(model.StatusTodo, model.StatusDoing)
	require.Len(t, open, 2)
	assert.Equal(t, "a", open[0].ID)
	assert.Equal(t, "c", open[1].ID)
}

func TestMirrorAllReturnsCopy(t *testing.T) {
	m := New()
	m.ReplaceAll([]model.Record{{ID: "rec-1", Title: "original"}})

	all := m.All()
	all[0].Title = "mutated"

	rec, _ := m.Get("rec-1")
	assert.Equal(t, "original", rec.Title)
}

func TestIsTempID(t *testing.T) {
	assert.True(t, IsTempID("tmp-123"))
	assert.False(t, IsTempID("rec-123"))
	assert.False(t, IsTempID("tmp-"))
	assert.False(t, IsTempID(""))
}
