package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTimeout is wrapped by errors returned when the overall request timeout elapses.
var ErrTimeout = errors.New("apiclient: request timed out")

// RequestError is returned for every non-2xx backend response.
type RequestError struct {
	Status  int
	Message string
	Code    string
	Method  string
	Path    string
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// IsUnauthorized reports whether the backend rejected the credentials.
func (e *RequestError) IsUnauthorized() bool {
	return e != nil && e.Status == http.StatusUnauthorized
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not a RequestError.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

// MessageOf returns the backend message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}

// IsUnauthorized reports whether err carries a 401 response.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}
