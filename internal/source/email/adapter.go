package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/lifeos/internal/model"
)

// captureLimit caps how many messages one capture run pulls in.
const captureLimit = 25

// mailbox is the slice of Client the capturer uses; tests substitute a
// fake.
type mailbox interface {
	FetchUnseen(ctx context.Context, lookbackDays, limit int) ([]Message, error)
	MarkSeen(ctx context.Context, uids []uint32) error
}

// Capturer turns unseen mailbox messages into inbox record inputs.
type Capturer struct {
	client mailbox
}

// NewCapturer creates a capturer for the configured mailbox. The
// password comes from the keyring, not the config file.
func NewCapturer(cfg model.MailConfig, password string) *Capturer {
	return &Capturer{
		client: NewClient(cfg.Host, cfg.Port, cfg.Username, password, cfg.TLS),
	}
}

// Capture fetches unseen messages and stores each one through the given
// callback. A message is flagged seen only after its record was created,
// so a failed save leaves the mail unseen for the next run instead of
// silently dropping it. Returns how many messages were imported.
func (c *Capturer) Capture(
	ctx context.Context,
	lookbackDays int,
	store func(context.Context, model.RecordInput) error,
) (int, error) {
	messages, err := c.client.FetchUnseen(ctx, lookbackDays, captureLimit)
	if err != nil {
		return 0, err
	}

	var saved []uint32
	var storeErr error
	for _, msg := range messages {
		if err := store(ctx, toInput(msg)); err != nil {
			storeErr = err
			break
		}
		saved = append(saved, msg.UID)
	}

	if len(saved) > 0 {
		if err := c.client.MarkSeen(ctx, saved); err != nil {
			return len(saved), fmt.Errorf("marking messages seen: %w", err)
		}
	}

	return len(saved), storeErr
}

// toInput maps a message to a capture input: subject becomes the title,
// the body (prefixed with the sender) becomes the content. Everything
// lands in the inbox as a note for later triage.
func toInput(msg Message) model.RecordInput {
	content := strings.TrimSpace(msg.Body)
	if msg.From != "" {
		content = "From: " + msg.From + "\n\n" + content
	}

	return model.RecordInput{
		Title:    msg.Subject,
		Content:  content,
		Status:   model.StatusInbox,
		Type:     model.TypeNote,
		Category: "Inbox",
	}
}
