package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/source"
)

// fakeMailbox is a scriptable mailbox for capture tests.
type fakeMailbox struct {
	messages []Message
	fetchErr error
	markErr  error
	marked   []uint32
}

func (f *fakeMailbox) FetchUnseen(ctx context.Context, lookbackDays, limit int) ([]Message, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.messages, nil
}

func (f *fakeMailbox) MarkSeen(ctx context.Context, uids []uint32) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, uids...)
	return nil
}

func testMessages() []Message {
	return []Message{
		{UID: 11, From: "Alex", Subject: "Dentist on Friday", Body: "Book before noon"},
		{UID: 12, From: "newsletter@example.com", Subject: "Weekly digest", Body: "Links inside"},
	}
}

func TestCaptureMarksSeenAfterSave(t *testing.T) {
	box := &fakeMailbox{messages: testMessages()}
	c := &Capturer{client: box}

	var stored []model.RecordInput
	count, err := c.Capture(context.Background(), 7,
		func(ctx context.Context, in model.RecordInput) error {
			stored = append(stored, in)
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []uint32{11, 12}, box.marked)

	require.Len(t, stored, 2)
	assert.Equal(t, "Dentist on Friday", stored[0].Title)
	assert.Equal(t, "From: Alex\n\nBook before noon", stored[0].Content)
	assert.Equal(t, model.StatusInbox, stored[0].Status)
	assert.Equal(t, model.TypeNote, stored[0].Type)
}

func TestCaptureFailedSaveLeavesMailUnseen(t *testing.T) {
	box := &fakeMailbox{messages: testMessages()}
	c := &Capturer{client: box}

	calls := 0
	count, err := c.Capture(context.Background(), 7,
		func(ctx context.Context, in model.RecordInput) error {
			calls++
			if calls == 2 {
				return source.ErrNotConfigured
			}
			return nil
		})

	assert.ErrorIs(t, err, source.ErrNotConfigured)
	assert.Equal(t, 1, count)
	// Only the saved message is flagged; the failed one stays unseen
	// for the next run.
	assert.Equal(t, []uint32{11}, box.marked)
}

func TestCaptureNothingSavedMarksNothing(t *testing.T) {
	box := &fakeMailbox{messages: testMessages()}
	c := &Capturer{client: box}

	count, err := c.Capture(context.Background(), 7,
		func(ctx context.Context, in model.RecordInput) error {
			return source.ErrNotConfigured
		})

	assert.ErrorIs(t, err, source.ErrNotConfigured)
	assert.Zero(t, count)
	assert.Empty(t, box.marked)
}

func TestCaptureFetchError(t *testing.T) {
	box := &fakeMailbox{fetchErr: errors.New("connection refused")}
	c := &Capturer{client: box}

	count, err := c.Capture(context.Background(), 7,
		func(ctx context.Context, in model.RecordInput) error { return nil })

	require.Error(t, err)
	assert.Zero(t, count)
	assert.Empty(t, box.marked)
}
