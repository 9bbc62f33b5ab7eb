package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/model"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := NewSnapshotStore(filepath.Join(t.TempDir(), "lifeos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSnapshotEmptyLoad(t *testing.T) {
	s := openTestStore(t)

	records, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	at, err := s.RefreshedAt(context.Background())
	require.NoError(t, err)
	assert.True(t, at.IsZero(), "never-refreshed store reports the zero time")
}

func TestSnapshotReplaceAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	due := base.Add(72 * time.Hour)
	in := []model.Record{
		{
			ID:        "rec-old",
			Title:     "older note",
			Content:   "body text",
			Status:    model.StatusInbox,
			Type:      model.TypeNote,
			Priority:  model.PriorityNormal,
			Category:  "Inbox",
			Tags:      []string{"go", "reading"},
			CreatedAt: base,
		},
		{
			ID:          "rec-new",
			Title:       "newer task",
			Status:      model.StatusTodo,
			Type:        model.TypeTask,
			Priority:    model.PriorityHigh,
			Category:    "Work",
			NextActions: []string{"todo"},
			DueDate:     &due,
			CreatedAt:   base.Add(time.Hour),
		},
	}

	require.NoError(t, s.Replace(ctx, in))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "rec-new", got[0].ID, "load orders newest first")
	assert.Equal(t, "rec-old", got[1].ID)

	assert.Equal(t, []string{"go", "reading"}, got[1].Tags)
	assert.Equal(t, []string{"todo"}, got[0].NextActions)
	require.NotNil(t, got[0].DueDate)
	assert.True(t, got[0].DueDate.Equal(due))
	assert.True(t, got[1].CreatedAt.Equal(base))
}

func TestSnapshotReplaceSkipsPending(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := []model.Record{
		{ID: "tmp-abc", Title: "in flight", Pending: true, CreatedAt: time.Now()},
		{ID: "rec-1", Title: "confirmed", CreatedAt: time.Now()},
	}

	require.NoError(t, s.Replace(ctx, in))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rec-1", got[0].ID)
}

func TestSnapshotReplaceOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, []model.Record{
		{ID: "rec-1", CreatedAt: time.Now()},
		{ID: "rec-2", CreatedAt: time.Now()},
	}))
	require.NoError(t, s.Replace(ctx, []model.Record{
		{ID: "rec-3", CreatedAt: time.Now()},
	}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rec-3", got[0].ID)
}

func TestSnapshotRefreshedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	before := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Replace(ctx, nil))

	at, err := s.RefreshedAt(ctx)
	require.NoError(t, err)
	assert.False(t, at.IsZero())
	assert.False(t, at.Before(before))
}
