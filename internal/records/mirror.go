// Package records keeps the in-memory mirror of the remote record set
// that the UI renders from. Mutations are applied here optimistically
// before their remote round trip; a refresh replaces the whole mirror
// with ground truth.
package records

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/lifeos/internal/model"
)

// tempIDPrefix marks client-generated ids for optimistic entries. They
// never survive a refresh; consumers must not hold on to them.
const tempIDPrefix = "tmp-"

// Mirror is the single shared record list. It is only ever touched from
// the UI event loop, so it carries no locking; each method derives the
// next state from the current one.
type Mirror struct {
	records []model.Record
}

// New creates an empty mirror.
func New() *Mirror {
	return &Mirror{}
}

// All returns the mirrored records, newest first, pending entries ahead
// of everything else. The returned slice is a copy.
func (m *Mirror) All() []model.Record {
	out := make([]model.Record, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the number of mirrored records.
func (m *Mirror) Len() int { return len(m.records) }

// ByStatus returns the records in the given statuses, preserving order.
func (m *Mirror) ByStatus(statuses ...string) []model.Record {
	want := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	var out []model.Record
	for _, r := range m.records {
		if want[r.Status] {
			out = append(out, r)
		}
	}
	return out
}

// Get returns the record with the given id, if present.
func (m *Mirror) Get(id string) (model.Record, bool) {
	for _, r := range m.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.Record{}, false
}

// Prepend synthesizes a pending record from the input and puts it at
// the head of the list. The returned record carries a temporary id; the
// caller fires the remote create and refreshes once it resolves.
func (m *Mirror) Prepend(in model.RecordInput) model.Record {
	in = in.Normalize()
	rec := model.Record{
		ID:          tempIDPrefix + uuid.New().String(),
		Title:       in.Title,
		Content:     in.Content,
		Status:      in.Status,
		Type:        in.Type,
		Priority:    in.Priority,
		Category:    in.Category,
		Tags:        in.Tags,
		NextActions: in.NextActions,
		DueDate:     in.DueDate,
		CreatedAt:   time.Now(),
		Pending:     true,
	}

	next := make([]model.Record, 0, len(m.records)+1)
	next = append(next, rec)
	next = append(next, m.records...)
	m.records = next

	return rec
}

// Patch applies a partial update to the matching record in place.
// Patching an id that is not mirrored is a no-op.
func (m *Mirror) Patch(id string, patch model.RecordPatch) bool {
	for i, r := range m.records {
		if r.ID == id {
			m.records[i] = patch.Apply(r)
			return true
		}
	}
	return false
}

// Remove drops the record with the given id. Callers remove only after
// the remote delete confirms, so a failed delete never leaves a
// phantom gap that refills on refresh.
func (m *Mirror) Remove(id string) bool {
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceAll swaps in a freshly fetched record set, discarding every
// optimistic entry. This is the reconciliation step after a create:
// whole-list replacement is simpler and safer than id-patching when
// duplicate-content records exist.
func (m *Mirror) ReplaceAll(records []model.Record) {
	next := make([]model.Record, len(records))
	copy(next, records)

	sort.SliceStable(next, func(i, j int) bool {
		return next[i].CreatedAt.After(next[j].CreatedAt)
	})

	m.records = next
}

// HasPending reports whether any optimistic entries await
// reconciliation.
func (m *Mirror) HasPending() bool {
	for _, r := range m.records {
		if r.Pending {
			return true
		}
	}
	return false
}

// IsTempID reports whether id was generated locally by Prepend.
func IsTempID(id string) bool {
	return len(id) > len(tempIDPrefix) && id[:len(tempIDPrefix)] == tempIDPrefix
}
