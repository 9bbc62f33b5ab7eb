package bitable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/lifeos/internal/source"
)

// DefaultBaseURL is the production endpoint of the remote table service.
const DefaultBaseURL = "https://open.larkapi.example.com"

// apiError is a non-zero application-level status code from the
// response envelope. It is distinct from transport failures: the HTTP
// exchange succeeded but the service refused the operation.
type apiError struct {
	Code int
	Msg  string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error [%d]: %s", e.Code, e.Msg)
}

// Client is a thin HTTP client for the remote tabular-store REST API.
// It handles bearer authentication, JSON marshaling, and the envelope
// convention; it knows nothing about record field mappings.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given service root URL. An empty
// baseURL selects the production endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Get performs a GET request and unmarshals the envelope payload.
func (c *Client) Get(
	ctx context.Context,
	path string,
	token string,
	result interface{},
) error {
	return c.do(ctx, http.MethodGet, path, token, nil, result)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(
	ctx context.Context,
	path string,
	token string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPost, path, token, body, result)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(
	ctx context.Context,
	path string,
	token string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPut, path, token, body, result)
}

// Delete performs a DELETE request.
func (c *Client) Delete(
	ctx context.Context,
	path string,
	token string,
) error {
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// do builds the request, attaches auth, and interprets the response
// envelope. Transport and decode failures come back as
// *source.RequestError; a non-zero envelope code comes back as
// *apiError for the adapter to classify.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	token string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &source.RequestError{
			Method:   method,
			Endpoint: path,
			Err:      err,
		}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &source.RequestError{
			Method:   method,
			Endpoint: path,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("reading response body: %w", readErr),
		}
	}

	if resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusForbidden {
		return &source.AuthError{
			Message: fmt.Sprintf(
				"the service rejected the request (%d) on %s %s",
				resp.StatusCode, method, path,
			),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &source.RequestError{
			Method:   method,
			Endpoint: path,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected status: %s", firstBytes(respBody)),
		}
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return &source.RequestError{
			Method:   method,
			Endpoint: path,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("decoding response envelope: %w", err),
		}
	}

	if env.Code != 0 {
		return &apiError{Code: env.Code, Msg: env.Msg}
	}

	if result == nil || len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, result); err != nil {
		return &source.RequestError{
			Method:   method,
			Endpoint: path,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("decoding response payload: %w", err),
		}
	}

	return nil
}

// firstBytes trims a response body for error messages.
func firstBytes(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
