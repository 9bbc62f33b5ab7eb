package source

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/nhle/lifeos/internal/model"
)

// Preview wraps a RecordService so the list view always has something
// to show. When the backend is unconfigured or rejects the credentials,
// List serves the built-in sample set instead of failing; the inner
// client's contract stays honest and the fallback lives here as policy.
// Mutations are never degraded: a failed save must be reported.
type Preview struct {
	inner RecordService

	// mu guards active: List runs on command goroutines while the UI
	// loop polls Active.
	mu     sync.Mutex
	active bool
}

// NewPreview wraps the given service.
func NewPreview(inner RecordService) *Preview {
	return &Preview{inner: inner}
}

// Active reports whether the last List served sample data.
func (p *Preview) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *Preview) setActive(on bool) {
	p.mu.Lock()
	p.active = on
	p.mu.Unlock()
}

// List never returns an error. Configuration and authentication
// problems degrade to the deterministic sample set; transport failures
// do too, so a flaky network cannot blank the screen.
func (p *Preview) List(ctx context.Context) ([]model.Record, error) {
	records, err := p.inner.List(ctx)
	if err != nil {
		p.setActive(true)
		return SampleRecords(), nil
	}
	p.setActive(false)
	return records, nil
}

// Create passes through to the real backend; an unconfigured backend
// returns ErrNotConfigured and the UI prompts for settings.
func (p *Preview) Create(
	ctx context.Context,
	in model.RecordInput,
) (*model.Record, error) {
	return p.inner.Create(ctx, in)
}

// Update passes through to the real backend.
func (p *Preview) Update(
	ctx context.Context,
	id string,
	patch model.RecordPatch,
) error {
	if isSampleID(id) {
		return ErrNotConfigured
	}
	return p.inner.Update(ctx, id, patch)
}

// Delete passes through to the real backend.
func (p *Preview) Delete(ctx context.Context, id string) error {
	if isSampleID(id) {
		return ErrNotConfigured
	}
	return p.inner.Delete(ctx, id)
}

// ExpectedColumns delegates to the wrapped service.
func (p *Preview) ExpectedColumns() []string {
	return p.inner.ExpectedColumns()
}

// isSampleID guards mutations against the reserved preview ids.
func isSampleID(id string) bool {
	return strings.HasPrefix(id, "sample-")
}

var _ RecordService = (*Preview)(nil)

// IsSchemaIssue reports whether err is a schema mismatch, which carries
// its own remedial message.
func IsSchemaIssue(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}
