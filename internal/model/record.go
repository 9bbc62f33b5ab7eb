package model

import (
	"regexp"
	"strings"
	"time"
)

// Record status constants. A record moves inbox -> todo -> doing -> done;
// ideas and notes usually stay in the inbox until triaged.
const (
	StatusInbox = "inbox"
	StatusTodo  = "todo"
	StatusDoing = "doing"
	StatusDone  = "done"
)

// Record type constants.
const (
	TypeIdea    = "idea"
	TypeTask    = "task"
	TypeNote    = "note"
	TypeJournal = "journal"
)

// Priority constants.
const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// Categories is the fixed classification option list offered during capture.
var Categories = []string{"Inbox", "Work", "Life", "Idea", "Reading"}

// NextActions is the fixed vocabulary for the next-action multi-select.
var NextActions = []string{"learn", "organize", "use", "share", "todo"}

// Statuses, Types, and Priorities enumerate the allowed enum values.
// Anything written to the remote table must be one of these.
var (
	Statuses   = []string{StatusInbox, StatusTodo, StatusDoing, StatusDone}
	Types      = []string{TypeIdea, TypeTask, TypeNote, TypeJournal}
	Priorities = []string{PriorityHigh, PriorityNormal, PriorityLow}
)

// TitleLimit caps derived titles at 40 characters. Longer first
// lines are cut here and marked with an ellipsis.
const TitleLimit = 40

// Record is a single captured item mirrored from the remote table.
type Record struct {
	// ID is assigned by the remote store. Records created optimistically
	// carry a temporary client id until the next refresh reconciles them.
	ID string `json:"id"`

	Title   string `json:"title"`
	Content string `json:"content,omitempty"`

	// Status is one of the Status* constants, never free text.
	Status string `json:"status"`

	// Type is one of the Type* constants.
	Type string `json:"type"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority"`

	// Category is one of Categories.
	Category string `json:"category"`

	Tags        []string `json:"tags,omitempty"`
	NextActions []string `json:"next_actions,omitempty"`

	// DueDate has day granularity.
	DueDate *time.Time `json:"due_date,omitempty"`

	// CreatedAt is server-assigned and drives the default ordering.
	CreatedAt time.Time `json:"created_at"`

	// Pending marks an optimistic local entry whose remote create has
	// not been reconciled yet.
	Pending bool `json:"-"`
}

// IsCompleted reports whether the record reached its terminal status.
func (r Record) IsCompleted() bool { return r.Status == StatusDone }

// IsOverdue reports whether an incomplete record is past its due date.
func (r Record) IsOverdue() bool {
	return r.DueDate != nil && r.DueDate.Before(time.Now()) && !r.IsCompleted()
}

// RecordInput carries the user-supplied values for a create call.
type RecordInput struct {
	Title       string
	Content     string
	Status      string
	Type        string
	Priority    string
	Category    string
	Tags        []string
	NextActions []string
	DueDate     *time.Time
}

// Normalize fills defaults and forces enum fields onto the allowed
// vocabularies so a malformed input can never reach the remote table.
func (in RecordInput) Normalize() RecordInput {
	in.Status = pick(in.Status, Statuses, StatusInbox)
	in.Type = pick(in.Type, Types, TypeIdea)
	in.Priority = pick(in.Priority, Priorities, PriorityNormal)
	in.Category = pick(in.Category, Categories, "Inbox")
	in.Title = DeriveTitle(in.Title, in.Content)
	in.Tags = mergeTags(in.Tags, ExtractTags(in.Title+"\n"+in.Content))
	return in
}

func pick(v string, allowed []string, fallback string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}

// DeriveTitle returns the record title for the given explicit title and
// free-form content. An explicit title wins; otherwise the first line of
// the content is used. Either way the result is cut at TitleLimit runes
// and marked with an ellipsis.
func DeriveTitle(title, content string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		t = firstLine(content)
	}
	return truncate(t, TitleLimit)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

// tagPattern matches inline #tag markers. CJK and latin word characters
// are both valid tag text.
var tagPattern = regexp.MustCompile(`#([\p{L}\p{N}_-]+)`)

// ExtractTags collects the #tag markers in text, deduplicated in order
// of first appearance.
func ExtractTags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var tags []string
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		tags = append(tags, m[1])
	}
	return tags
}

func mergeTags(explicit, extracted []string) []string {
	seen := make(map[string]bool, len(explicit)+len(extracted))
	var out []string
	for _, group := range [][]string{explicit, extracted} {
		for _, t := range group {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// RecordPatch is a partial field update. Only non-nil fields are sent to
// the backend; unspecified fields are never clobbered. A non-nil DueDate
// holding the zero time clears the stored date.
type RecordPatch struct {
	Title       *string
	Content     *string
	Status      *string
	Type        *string
	Priority    *string
	Category    *string
	Tags        *[]string
	NextActions *[]string
	DueDate     *time.Time
}

// IsEmpty reports whether the patch carries no fields at all.
func (p RecordPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Status == nil &&
		p.Type == nil && p.Priority == nil && p.Category == nil &&
		p.Tags == nil && p.NextActions == nil && p.DueDate == nil
}

// Apply copies the patch's fields onto a record, for optimistic local
// updates ahead of the remote round trip.
func (p RecordPatch) Apply(r Record) Record {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Content != nil {
		r.Content = *p.Content
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Tags != nil {
		r.Tags = *p.Tags
	}
	if p.NextActions != nil {
		r.NextActions = *p.NextActions
	}
	if p.DueDate != nil {
		if p.DueDate.IsZero() {
			r.DueDate = nil
		} else {
			r.DueDate = p.DueDate
		}
	}
	return r
}

// StatusPatch is a convenience constructor for the most common patch.
func StatusPatch(status string) RecordPatch {
	return RecordPatch{Status: &status}
}
