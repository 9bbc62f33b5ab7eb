package bitable

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/nhle/lifeos/internal/model"
	"github.com/nhle/lifeos/internal/source"
)

// CredentialSource supplies the current credential on every call, so a
// re-save in settings takes effect without rebuilding the adapter.
type CredentialSource interface {
	Get() (*model.Credential, error)
}

// Adapter implements source.RecordService against the remote table.
type Adapter struct {
	client   *Client
	tokens   *tokenProvider
	creds    CredentialSource
	mapping  Mapping
	pageSize int
}

// NewAdapter creates an adapter for one table, using the given
// vocabulary generation for column and option labels.
func NewAdapter(
	baseURL string,
	creds CredentialSource,
	mapping Mapping,
	pageSize int,
) *Adapter {
	if pageSize <= 0 {
		pageSize = 100
	}
	client := NewClient(baseURL)
	return &Adapter{
		client:   client,
		tokens:   newTokenProvider(client),
		creds:    creds,
		mapping:  mapping,
		pageSize: pageSize,
	}
}

// ExpectedColumns lists the column labels the remote table must carry.
func (a *Adapter) ExpectedColumns() []string {
	return a.mapping.ExpectedColumns()
}

// session loads the credential and acquires a bearer token. Every
// operation starts here; a missing credential fails fast before any
// network traffic.
func (a *Adapter) session(
	ctx context.Context,
) (*model.Credential, string, error) {
	cred, err := a.creds.Get()
	if err != nil {
		return nil, "", fmt.Errorf("loading credential: %w", err)
	}
	if cred == nil {
		return nil, "", source.ErrNotConfigured
	}

	token, err := a.tokens.Token(ctx, cred.AppID, cred.AppSecret)
	if err != nil {
		return nil, "", err
	}
	return cred, token, nil
}

// recordsPath builds the collection path for the credential's table.
// Tables are scoped under the app token.
func recordsPath(cred *model.Credential) string {
	return fmt.Sprintf(
		"/apps/%s/tables/%s/records",
		url.PathEscape(cred.AppToken), url.PathEscape(cred.TableID),
	)
}

// List fetches one page of records, newest first.
func (a *Adapter) List(ctx context.Context) ([]model.Record, error) {
	cred, token, err := a.session(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("page_size", fmt.Sprintf("%d", a.pageSize))
	q.Set("sort", "-"+a.mapping.Columns.CreatedAt)
	path := recordsPath(cred) + "?" + q.Encode()

	var data listData
	if err := a.client.Get(ctx, path, token, &data); err != nil {
		return nil, a.classify("GET", path, err)
	}

	records := make([]model.Record, 0, len(data.Items))
	for _, item := range data.Items {
		records = append(records, a.fromPayload(item))
	}

	// Sort locally as well: not every backend honors the sort param.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

// Create writes a new record and returns it with its server id.
func (a *Adapter) Create(
	ctx context.Context,
	in model.RecordInput,
) (*model.Record, error) {
	cred, token, err := a.session(ctx)
	if err != nil {
		return nil, err
	}

	in = in.Normalize()
	path := recordsPath(cred)

	var data recordData
	err = a.client.Post(ctx, path, token, fieldsRequest{
		Fields: a.inputFields(in),
	}, &data)
	if err != nil {
		return nil, a.classify("POST", path, err)
	}

	rec := a.fromPayload(data.Record)
	return &rec, nil
}

// Update sends a partial field patch. Only the fields present in the
// patch reach the wire.
func (a *Adapter) Update(
	ctx context.Context,
	id string,
	patch model.RecordPatch,
) error {
	if patch.IsEmpty() {
		return nil
	}

	cred, token, err := a.session(ctx)
	if err != nil {
		return err
	}

	path := recordsPath(cred) + "/" + url.PathEscape(id)
	err = a.client.Put(ctx, path, token, fieldsRequest{
		Fields: a.patchFields(patch),
	}, nil)
	if err != nil {
		return a.classify("PUT", path, err)
	}
	return nil
}

// Delete removes a record permanently.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	cred, token, err := a.session(ctx)
	if err != nil {
		return err
	}

	path := recordsPath(cred) + "/" + url.PathEscape(id)
	if err := a.client.Delete(ctx, path, token); err != nil {
		return a.classify("DELETE", path, err)
	}
	return nil
}

// classify turns client-level errors into the service error taxonomy.
func (a *Adapter) classify(method, path string, err error) error {
	var authErr *source.AuthError
	if errors.As(err, &authErr) {
		// The bearer was refused mid-flight; drop the cache so the
		// next operation starts from a fresh token.
		a.tokens.invalidate()
		return err
	}

	var api *apiError
	if errors.As(err, &api) {
		if api.Code == codeFieldNameNotFound {
			return &source.SchemaError{
				Code:     api.Code,
				Expected: a.mapping.ExpectedColumns(),
			}
		}
		return &source.RequestError{
			Method:   method,
			Endpoint: path,
			Err:      api,
		}
	}

	return err
}

// inputFields builds the wire field map for a create call.
func (a *Adapter) inputFields(in model.RecordInput) map[string]interface{} {
	c := a.mapping.Columns
	fields := map[string]interface{}{
		c.Title:    in.Title,
		c.Content:  in.Content,
		c.Status:   a.mapping.Status[in.Status],
		c.Type:     a.mapping.Types[in.Type],
		c.Priority: a.mapping.Priority[in.Priority],
		c.Category: in.Category,
	}

	if len(in.Tags) > 0 {
		fields[c.Tags] = in.Tags
	}
	if len(in.NextActions) > 0 {
		fields[c.NextActions] = a.nextActionLabels(in.NextActions)
	}
	if in.DueDate != nil {
		fields[c.DueDate] = in.DueDate.UnixMilli()
	}

	return fields
}

// patchFields builds the wire field map for an update call, including
// only the fields the patch names.
func (a *Adapter) patchFields(p model.RecordPatch) map[string]interface{} {
	c := a.mapping.Columns
	fields := make(map[string]interface{})

	if p.Title != nil {
		fields[c.Title] = *p.Title
	}
	if p.Content != nil {
		fields[c.Content] = *p.Content
	}
	if p.Status != nil {
		fields[c.Status] = a.mapping.Status[*p.Status]
	}
	if p.Type != nil {
		fields[c.Type] = a.mapping.Types[*p.Type]
	}
	if p.Priority != nil {
		fields[c.Priority] = a.mapping.Priority[*p.Priority]
	}
	if p.Category != nil {
		fields[c.Category] = *p.Category
	}
	if p.Tags != nil {
		fields[c.Tags] = *p.Tags
	}
	if p.NextActions != nil {
		fields[c.NextActions] = a.nextActionLabels(*p.NextActions)
	}
	if p.DueDate != nil {
		if p.DueDate.IsZero() {
			// Explicit null erases the cell.
			fields[c.DueDate] = nil
		} else {
			fields[c.DueDate] = p.DueDate.UnixMilli()
		}
	}

	return fields
}

func (a *Adapter) nextActionLabels(values []string) []string {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		if label, ok := a.mapping.NextActions[v]; ok {
			labels = append(labels, label)
		}
	}
	return labels
}

// fromPayload converts a wire record into the internal model using the
// mapping's reverse lookups. Unknown option labels fall back to the
// enum defaults rather than leaking free text into the model.
func (a *Adapter) fromPayload(p recordPayload) model.Record {
	c := a.mapping.Columns
	f := p.Fields

	rec := model.Record{
		ID:       p.RecordID,
		Title:    str(f[c.Title]),
		Content:  str(f[c.Content]),
		Status:   a.mapping.statusValue(str(f[c.Status])),
		Type:     a.mapping.typeValue(str(f[c.Type])),
		Priority: a.mapping.priorityValue(str(f[c.Priority])),
		Category: str(f[c.Category]),
		Tags:     strSlice(f[c.Tags]),
	}

	for _, label := range strSlice(f[c.NextActions]) {
		if v := a.mapping.nextActionValue(label); v != "" {
			rec.NextActions = append(rec.NextActions, v)
		}
	}

	if ms, ok := millis(f[c.DueDate]); ok {
		due := time.UnixMilli(ms)
		rec.DueDate = &due
	}
	if ms, ok := millis(f[c.CreatedAt]); ok {
		rec.CreatedAt = time.UnixMilli(ms)
	}

	return rec
}

// str extracts a string field value. Text columns may arrive either as
// a plain string or as an array of text segments.
func str(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		var out string
		for _, seg := range t {
			if m, ok := seg.(map[string]interface{}); ok {
				if s, ok := m["text"].(string); ok {
					out += s
				}
				continue
			}
			if s, ok := seg.(string); ok {
				out += s
			}
		}
		return out
	default:
		return ""
	}
}

func strSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// millis extracts a millisecond timestamp, which JSON decodes as a
// float64.
func millis(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t == 0 {
			return 0, false
		}
		return int64(t), true
	case int64:
		return t, t != 0
	default:
		return 0, false
	}
}
