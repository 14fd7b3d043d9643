package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error is a non-2xx response from the API.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string // server-provided message, may be empty
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: request failed with status %d", e.Method, e.Path, e.Status)
}

// newError extracts a message from the usual API error shapes:
// {"error": "..."}, {"detail": "..."} or {"field": ["..."]}.
func newError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, Status: status}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return e
	}
	for _, k := range []string{"error", "detail", "message"} {
		if s, ok := m[k].(string); ok && s != "" {
			e.Message = s
			return e
		}
	}
	fields := make([]string, 0, len(m))
	for k := range m {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	for _, k := range fields {
		if list, ok := m[k].([]any); ok && len(list) > 0 {
			if s, ok := list[0].(string); ok {
				e.Message = k + ": " + s
				return e
			}
		}
	}
	return e
}

// StatusOf returns the HTTP status of an API error, or 0 for transport and
// decoding failures.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsUnauthorized reports a 401 or 403 from the API.
func IsUnauthorized(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// IsNotFound reports a 404 from the API.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsBadRequest reports a 400 from the API.
func IsBadRequest(err error) bool { return StatusOf(err) == http.StatusBadRequest }

// MessageOf returns the server-provided message of an API error, trimmed.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return strings.TrimSpace(e.Message)
	}
	return ""
}
