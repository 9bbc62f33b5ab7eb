package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/lifeos/internal/credential"
	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/source/email"
)

// snapshotLoadedMsg carries the cached records shown before the first
// remote refresh completes.
type snapshotLoadedMsg struct {
	records []model.Record
}

// recordsRefreshedMsg carries the result of a remote list fetch.
type recordsRefreshedMsg struct {
	records []model.Record
	preview bool
	err     error
}

// recordCreatedMsg is sent after a remote create settles.
type recordCreatedMsg struct {
	tempID string
	err    error
}

// recordUpdatedMsg is sent after a remote update settles.
type recordUpdatedMsg struct {
	id  string
	err error
}

// recordDeletedMsg is sent after a remote delete settles.
type recordDeletedMsg struct {
	id  string
	err error
}

// mailCapturedMsg reports how many mail messages were imported.
type mailCapturedMsg struct {
	count int
	err   error
}

// settingsSavedMsg is sent after the settings have been persisted.
// disconnected reports that the credential was erased rather than saved.
type settingsSavedMsg struct {
	disconnected bool
	err          error
}

// loadSnapshot reads the cached record list from the local database.
func (m *Model) loadSnapshot() tea.Cmd {
	s := m.snapshot
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		records, err := s.Load(context.Background())
		if err != nil {
			return snapshotLoadedMsg{records: nil}
		}
		return snapshotLoadedMsg{records: records}
	}
}

// refreshRecords fetches the authoritative record list from the backend.
func (m *Model) refreshRecords() tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		records, err := svc.List(context.Background())
		return recordsRefreshedMsg{
			records: records,
			preview: svc.Active(),
			err:     err,
		}
	}
}

// saveSnapshot persists the current mirror to the local cache. Failures
// are ignored; the cache is an optimization, not a store of record.
func (m *Model) saveSnapshot(records []model.Record) tea.Cmd {
	s := m.snapshot
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		_ = s.Replace(context.Background(), records)
		return nil
	}
}

// createRecord sends a capture to the backend. The mirror already holds
// an optimistic entry under tempID; the follow-up refresh replaces it
// with the server-assigned record. When optimize is set and the
// assistant is configured, the title and content are polished first --
// a failed polish falls back to the raw input rather than blocking the
// capture.
func (m *Model) createRecord(
	tempID string,
	input model.RecordInput,
	optimize bool,
) tea.Cmd {
	svc := m.service
	opt := m.optimizer
	return func() tea.Msg {
		ctx := context.Background()

		if optimize && opt != nil && opt.Available() {
			text := input.Content
			if text == "" {
				text = input.Title
			}
			if suggestion, err := opt.Optimize(ctx, text, input.Type); err == nil {
				if suggestion.Title != "" {
					input.Title = suggestion.Title
				}
				if suggestion.Content != "" {
					input.Content = suggestion.Content
				}
			}
		}

		_, err := svc.Create(ctx, input)
		return recordCreatedMsg{tempID: tempID, err: err}
	}
}

// updateRecord sends a partial field update to the backend.
func (m *Model) updateRecord(id string, patch model.RecordPatch) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		err := svc.Update(context.Background(), id, patch)
		return recordUpdatedMsg{id: id, err: err}
	}
}

// deleteRecord removes a record from the backend. The mirror entry is
// only dropped once the backend confirms, so a failed delete never
// loses data locally.
func (m *Model) deleteRecord(id string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		err := svc.Delete(context.Background(), id)
		return recordDeletedMsg{id: id, err: err}
	}
}

// captureMail imports unread mail into the inbox as notes.
func (m *Model) captureMail() tea.Cmd {
	cfg := m.cfg.Mail
	svc := m.service
	creds := m.creds
	return func() tea.Msg {
		ctx := context.Background()

		password, err := creds.GetSecret(credential.MailPasswordKey)
		if err != nil {
			return mailCapturedMsg{err: err}
		}

		capturer := email.NewCapturer(cfg, password)
		count, err := capturer.Capture(ctx, cfg.LookbackDays,
			func(ctx context.Context, in model.RecordInput) error {
				_, err := svc.Create(ctx, in)
				return err
			})
		return mailCapturedMsg{count: count, err: err}
	}
}
