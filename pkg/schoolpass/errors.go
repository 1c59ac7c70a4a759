package schoolpass

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInitFailed           = errors.New("schoolpass: failed to initialize the API")
	ErrNotInitialized       = errors.New("schoolpass: API is not initialized")
	ErrInvalidRuntimeConfig = errors.New("schoolpass: runtime config is missing the home base URL or auth token")
	ErrUserNotFound         = errors.New("schoolpass: user not found")
	ErrRequestFailed        = errors.New("schoolpass: request failed")
	ErrReauthFailed         = errors.New("schoolpass: unable to refresh authentication token")
	ErrRateLimited          = errors.New("schoolpass: rate limit retries exhausted")
	ErrInvalidToken         = errors.New("schoolpass: empty authentication token")
	ErrDecodeResponse       = errors.New("schoolpass: failed to decode response")
	ErrInvalidPasswordMode  = errors.New("schoolpass: invalid password mode")
	ErrInvalidConfig        = errors.New("schoolpass: invalid configuration")
)

// maxMessageLen bounds messages taken from plain-text response bodies.
const maxMessageLen = 500

// APIError is a non-2xx response from SchoolPass.
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Body       []byte
	// Message is extracted from the response body, empty if the body had none.
	Message string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("schoolpass: %s %s returned status %d", e.Method, e.URL, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func newAPIError(method, url string, status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Method:     method,
		URL:        url,
		Body:       body,
		Message:    messageFromBody(body),
	}
}

// RequestError is returned by data operations. It unwraps to both
// ErrRequestFailed and the underlying cause.
type RequestError struct {
	Op      string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrRequestFailed.Error(), e.Op, e.Message)
}

func (e *RequestError) Unwrap() []error {
	return []error{ErrRequestFailed, e.Err}
}

func newRequestError(op string, err error) *RequestError {
	msg := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &RequestError{Op: op, Message: msg, Err: err}
}

// messageFromBody picks a human readable message out of an error body:
// a JSON "message", "title" or "detail" field, a JSON string, or the
// trimmed text itself.
func messageFromBody(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var fields struct {
		Message string `json:"message"`
		Title   string `json:"title"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, s := range []string{fields.Message, fields.Title, fields.Detail} {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return strings.TrimSpace(s)
	}

	text := strings.Join(strings.Fields(string(body)), " ")
	if len(text) > maxMessageLen {
		text = text[:maxMessageLen] + "..."
	}
	return text
}
