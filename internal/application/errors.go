package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when the backend rejected the session credentials.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrForbidden is returned when the session role may not perform an operation.
	ErrForbidden = errors.New("application: forbidden")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidCredentials is returned when no demo account or backend accepted the credentials.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrNotAuthenticated is returned when an operation needs a signed-in session.
	ErrNotAuthenticated = errors.New("application: not authenticated")
)

// ValidationError captures field level validation issues that callers can surface to users.
// It is raised before anything is sent to the backend.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error. The first message per field wins.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; exists {
		return
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// errOrNil avoids returning a typed nil *ValidationError as a non-nil error.
func (v *ValidationError) errOrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}
