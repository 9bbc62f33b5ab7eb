package source

import (
	"time"

	"github.com/nhle/lifeos/internal/model"
)

// sampleBase anchors the sample set's timestamps so the preview list is
// fully deterministic.
var sampleBase = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// SampleRecords returns the built-in demo record set shown in preview
// mode, newest first. The ids are reserved so a real backend can never
// collide with them.
func SampleRecords() []model.Record {
	due := sampleBase.AddDate(0, 0, 3)
	return []model.Record{
		{
			ID:        "sample-4",
			Title:     "Press s to connect your own table",
			Content:   "Everything you capture is stored in a spreadsheet you own.",
			Status:    model.StatusInbox,
			Type:      model.TypeNote,
			Priority:  model.PriorityNormal,
			Category:  "Inbox",
			CreatedAt: sampleBase.Add(3 * time.Hour),
		},
		{
			ID:          "sample-3",
			Title:       "Read \"Getting Things Done\"",
			Content:     "Start with the capture habit chapter. #reading",
			Status:      model.StatusTodo,
			Type:        model.TypeTask,
			Priority:    model.PriorityNormal,
			Category:    "Reading",
			Tags:        []string{"reading"},
			NextActions: []string{"learn"},
			DueDate:     &due,
			CreatedAt:   sampleBase.Add(2 * time.Hour),
		},
		{
			ID:        "sample-2",
			Title:     "Weekly review ritual",
			Content:   "Empty the inbox, pick three tasks for the week.",
			Status:    model.StatusDoing,
			Type:      model.TypeTask,
			Priority:  model.PriorityHigh,
			Category:  "Work",
			CreatedAt: sampleBase.Add(time.Hour),
		},
		{
			ID:        "sample-1",
			Title:     "Ideas want to be written down",
			Content:   "The first record in every inbox. #welcome",
			Status:    model.StatusDone,
			Type:      model.TypeIdea,
			Priority:  model.PriorityLow,
			Category:  "Idea",
			Tags:      []string{"welcome"},
			CreatedAt: sampleBase,
		},
	}
}
