package source

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/model"
)

// fakeService is a scriptable RecordService for decorator tests.
type fakeService struct {
	records   []model.Record
	listErr   error
	createErr error
	updated   []string
	deleted   []string
}

func (f *fakeService) List(ctx context.Context) ([]model.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeService) Create(
	ctx context.Context,
	in model.RecordInput,
) (*model.Record, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	rec := model.Record{ID: "rec-created", Title: in.Title}
	return &rec, nil
}

func (f *fakeService) Update(
	ctx context.Context,
	id string,
	patch model.RecordPatch,
) error {
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeService) ExpectedColumns() []string {
	return []string{"Title"}
}

func TestPreviewListFallsBackToSamples(t *testing.T) {
	fake := &fakeService{listErr: ErrNotConfigured}
	p := NewPreview(fake)

	records, err := p.List(context.Background())
	require.NoError(t, err, "List never errors")
	require.NotEmpty(t, records)
	assert.True(t, p.Active())

	// The fallback set is deterministic and newest first.
	again, err := p.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, records, again)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i-1].CreatedAt.Before(records[i].CreatedAt))
	}
}

func TestPreviewListPassesThroughOnSuccess(t *testing.T) {
	fake := &fakeService{records: []model.Record{{ID: "rec-1", Title: "real"}}}
	p := NewPreview(fake)

	// A previous failure leaves preview mode once the backend recovers.
	fake.listErr = ErrNotConfigured
	_, err := p.List(context.Background())
	require.NoError(t, err)
	require.True(t, p.Active())

	fake.listErr = nil
	records, err := p.List(context.Background())
	require.NoError(t, err)
	assert.False(t, p.Active())
	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", records[0].ID)
}

func TestPreviewActiveConcurrentWithList(t *testing.T) {
	fake := &fakeService{listErr: ErrNotConfigured}
	p := NewPreview(fake)

	// Active is polled from the UI loop while List runs on command
	// goroutines; the race detector flags any unguarded access.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = p.List(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = p.Active()
		}
	}()
	wg.Wait()

	assert.True(t, p.Active())
}

func TestPreviewMutationsNeverDegrade(t *testing.T) {
	fake := &fakeService{createErr: ErrNotConfigured}
	p := NewPreview(fake)

	_, err := p.Create(context.Background(), model.RecordInput{Title: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured, "failed saves must be reported")
}

func TestPreviewProtectsSampleRecords(t *testing.T) {
	fake := &fakeService{}
	p := NewPreview(fake)

	err := p.Update(context.Background(), "sample-1", model.StatusPatch(model.StatusDone))
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = p.Delete(context.Background(), "sample-2")
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Empty(t, fake.updated)
	assert.Empty(t, fake.deleted)

	// Real ids pass through.
	require.NoError(t, p.Update(context.Background(), "rec-1", model.StatusPatch(model.StatusDone)))
	require.NoError(t, p.Delete(context.Background(), "rec-2"))
	assert.Equal(t, []string{"rec-1"}, fake.updated)
	assert.Equal(t, []string{"rec-2"}, fake.deleted)
}

func TestIsConfigIssue(t *testing.T) {
	assert.True(t, IsConfigIssue(ErrNotConfigured))
	assert.True(t, IsConfigIssue(&AuthError{Message: "denied"}))
	assert.False(t, IsConfigIssue(&SchemaError{Code: 1254045}))
	assert.False(t, IsConfigIssue(nil))
}

func TestSampleRecordsCoverEveryStatus(t *testing.T) {
	seen := make(map[string]bool)
	for _, rec := range SampleRecords() {
		seen[rec.Status] = true
		assert.True(t, len(rec.ID) > 0)
	}
	for _, status := range model.Statuses {
		assert.True(t, seen[status], "missing status %q", status)
	}
}
