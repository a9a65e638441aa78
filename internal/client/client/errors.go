package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorMessage is HTTPError.Message when the body carries none.
const DefaultErrorMessage = "An API error occurred"

var (
	// ErrNetwork is matched by every *NetworkError.
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is matched by an *HTTPError with status 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDecode reports a success response whose body is not valid JSON, or
	// does not fit the caller's type.
	ErrDecode = errors.New("decode response")

	// ErrRefreshExhausted means the session could not be renewed and has
	// been logged out.
	ErrRefreshExhausted = errors.New("session expired")
	ErrNoRefreshToken   = fmt.Errorf("%w: no refresh token", ErrRefreshExhausted)
	ErrRefreshFailed    = fmt.Errorf("%w: token refresh failed", ErrRefreshExhausted)
)

// NetworkError is returned when no response was received.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// HTTPError is a response with a non-success status. Body is nil when the
// server sent none.
type HTTPError struct {
	Status  int
	Body    json.RawMessage
	Message string
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{Status: status, Message: DefaultErrorMessage}
	if len(body) > 0 {
		e.Body = json.RawMessage(body)
		if msg := messageFromBody(body); msg != "" {
			e.Message = msg
		}
	}
	return e
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// messageFromBody takes "detail", then "message", from a JSON object body.
// Non-string values are skipped.
func messageFromBody(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "message"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// IsStatus reports whether err is an *HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}
