package bitable

import "encoding/json"

// envelope is the application-level response wrapper used by every
// endpoint. Code 0 means success; any other value is a domain error
// carrying a message.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Application-level error codes the client recognizes.
const (
	// codeFieldNameNotFound is returned when a request names a column
	// the table does not have, i.e. the field mapping and the actual
	// table schema have drifted apart.
	codeFieldNameNotFound = 1254045
)

// tokenRequest is the body of POST /auth/token.
type tokenRequest struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
}

// tokenData is the payload of a successful token response. ExpiresIn is
// the token lifetime in seconds; zero means the server did not report
// one and the token will not be cached.
type tokenData struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// recordPayload is a single record on the wire. Fields is keyed by the
// user-visible column labels; value types vary by column kind (strings
// for text and single-selects, string arrays for multi-selects,
// millisecond timestamps for dates).
type recordPayload struct {
	RecordID string                 `json:"record_id"`
	Fields   map[string]interface{} `json:"fields"`
}

// listData is the payload of GET .../records.
type listData struct {
	Items []recordPayload `json:"items"`
}

// recordData is the payload of POST .../records.
type recordData struct {
	Record recordPayload `json:"record"`
}

// fieldsRequest is the body of create and update calls.
type fieldsRequest struct {
	Fields map[string]interface{} `json:"fields"`
}
