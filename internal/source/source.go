// Package source defines the contract between the UI and the remote
// record backend, plus the error taxonomy the UI routes on.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/lifeos/internal/model"
)

// RecordService is the CRUD-shaped interface the view layer talks to.
// The bitable adapter is the real implementation; Preview layers the
// sample-data fallback on top of it.
type RecordService interface {
	// List returns up to the configured page size of records, ordered
	// by creation time descending.
	List(ctx context.Context) ([]model.Record, error)

	// Create writes a new record and returns it with its server id.
	Create(ctx context.Context, in model.RecordInput) (*model.Record, error)

	// Update sends only the fields present in the patch; unspecified
	// fields are never clobbered.
	Update(ctx context.Context, id string, patch model.RecordPatch) error

	// Delete removes a record permanently.
	Delete(ctx context.Context, id string) error

	// ExpectedColumns lists the column names the remote table must
	// carry, for schema-mismatch guidance.
	ExpectedColumns() []string
}

// ErrNotConfigured signals that no credential is stored. The UI responds
// by opening the settings form.
var ErrNotConfigured = errors.New("remote table credential not configured")

// AuthError signals that the token endpoint rejected the credentials.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// SchemaError signals that the remote table's column names do not match
// the configured field mapping. Expected carries the column names the
// user needs to create.
type SchemaError struct {
	Code     int
	Expected []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(
		"table schema mismatch (code %d): expected columns %s",
		e.Code, strings.Join(e.Expected, ", "),
	)
}

// RequestError wraps a transport or decode failure with enough context
// to diagnose it (endpoint and HTTP status, when known).
type RequestError struct {
	Method   string
	Endpoint string
	Status   int
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf(
			"request %s %s failed (status %d): %v",
			e.Method, e.Endpoint, e.Status, e.Err,
		)
	}
	return fmt.Sprintf("request %s %s failed: %v", e.Method, e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsConfigIssue reports whether err should send the user to settings
// rather than being shown as a transient failure.
func IsConfigIssue(err error) bool {
	var authErr *AuthError
	return errors.Is(err, ErrNotConfigured) || errors.As(err, &authErr)
}
