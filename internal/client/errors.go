package client

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNotFound matches ServerErrors carrying 404.
	ErrNotFound = errors.New("client: not found")
	// ErrUnauthorized matches ServerErrors carrying 401.
	ErrUnauthorized = errors.New("client: unauthorized")
	// ErrForbidden matches ServerErrors carrying 403.
	ErrForbidden = errors.New("client: forbidden")
	// ErrConflict matches ServerErrors carrying 409.
	ErrConflict = errors.New("client: conflict")
	// ErrMalformedRecord is returned when a server record lacks a required field.
	ErrMalformedRecord = errors.New("client: malformed record")
	// ErrNoSession is returned when a call needs a session and none is live.
	ErrNoSession = errors.New("client: not logged in")
)

// NetworkError reports a request that never completed.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError reports a non-2xx response.
type ServerError struct {
	Op          string
	StatusCode  int
	Code        string
	Message     string
	FieldErrors map[string]string
}

func (e *ServerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.FieldErrors) > 0 {
		msg += " (" + joinFields(e.FieldErrors) + ")"
	}
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, msg)
}

// Is lets errors.Is match the status sentinels.
func (e *ServerError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// ValidationError reports input rejected before any request was sent.
type ValidationError struct {
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + joinFields(e.FieldErrors)
}

// UserMessage collapses any client error into the generic message shown to users.
func UserMessage(action string, err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNoSession) || errors.Is(err, ErrUnauthorized) {
		return fmt.Sprintf("failed to %s: please log in", action)
	}
	return "failed to " + action
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fields[key])
	}
	return strings.Join(parts, "; ")
}
