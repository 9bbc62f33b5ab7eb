// Package ai turns raw captured text into a polished title/content pair
// via the Claude Messages API. It is purely additive: nothing in the
// capture flow requires it, and without a key every call fails fast
// with ErrUnavailable.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
	defaultAPIURL    = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
)

// ErrUnavailable is returned when no API key is configured.
var ErrUnavailable = errors.New("ai assist is not configured")

// Suggestion is the optimizer's proposed title and content for a piece
// of raw captured text.
type Suggestion struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Optimizer rewrites raw capture text into a structured suggestion.
type Optimizer struct {
	apiKey    string
	model     string
	maxTokens int
	apiURL    string
	client    *http.Client
}

// New creates an optimizer. An empty apiKey yields an optimizer whose
// Optimize always returns ErrUnavailable.
func New(apiKey, modelName string, maxTokens int) *Optimizer {
	if modelName == "" {
		modelName = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Optimizer{
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens,
		apiURL:    defaultAPIURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Available reports whether an API key is configured.
func (o *Optimizer) Available() bool { return o.apiKey != "" }

// Optimize asks the model for a cleaned-up title and content for the
// given raw text and record type.
func (o *Optimizer) Optimize(
	ctx context.Context,
	text string,
	recordType string,
) (*Suggestion, error) {
	if o.apiKey == "" {
		return nil, ErrUnavailable
	}

	reqBody := apiRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		System:    systemPrompt(recordType),
		Messages: []apiMessage{
			{
				Role: "user",
				Content: []apiContentBlock{
					{Type: "text", Text: text},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, o.apiURL, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", o.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling assist API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("assist API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("assist API error (%d)", resp.StatusCode)
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	var textOut strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			textOut.WriteString(block.Text)
		}
	}

	suggestion, err := parseSuggestion(textOut.String())
	if err != nil {
		return nil, err
	}
	return suggestion, nil
}

// systemPrompt instructs the model to answer with a single JSON object.
func systemPrompt(recordType string) string {
	var sb strings.Builder

	sb.WriteString("You help a personal capture tool clean up quickly ")
	sb.WriteString("jotted notes. The user captured a ")
	sb.WriteString(recordType)
	sb.WriteString(".\n\n")
	sb.WriteString("Rewrite the raw text into a short, clear title and a ")
	sb.WriteString("tidied content body. Keep the user's language and any ")
	sb.WriteString("#tags exactly as written.\n\n")
	sb.WriteString("Respond with ONLY a JSON object of the form ")
	sb.WriteString(`{"title": "...", "content": "..."}`)
	sb.WriteString(" and nothing else.")

	return sb.String()
}

// parseSuggestion extracts the JSON object from the model's reply,
// tolerating surrounding prose or code fences.
func parseSuggestion(reply string) (*Suggestion, error) {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("assist reply had no JSON object")
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(reply[start:end+1]), &s); err != nil {
		return nil, fmt.Errorf("decoding assist reply: %w", err)
	}
	if s.Title == "" {
		return nil, fmt.Errorf("assist reply had no title")
	}
	return &s, nil
}

// --- Claude API types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
