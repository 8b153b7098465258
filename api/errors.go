// ABOUTME: Structured failures returned by the REST gateway
// ABOUTME: Carries status, path and raw body text of any non-2xx response
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Method     string
	Path       string
	Body       string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, strings.TrimSpace(strings.TrimPrefix(status, fmt.Sprint(e.StatusCode))))
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// Message returns the most human-friendly description available: the
// "error", "message" or "detail" field of a JSON body, else the raw body,
// else the status text.
func (e *StatusError) Message() string {
	body := strings.TrimSpace(e.Body)
	if body != "" && gjson.Valid(body) {
		for _, key := range []string{"error", "message", "detail", "error.message"} {
			if v := gjson.Get(body, key); v.Exists() && v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	if body != "" && !strings.HasPrefix(body, "<") && len(body) <= 200 {
		return body
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return e.Status
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return HasStatus(err, http.StatusNotFound)
}

// HasStatus reports whether err wraps a StatusError with the given code.
func HasStatus(err error, code int) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == code
	}
	return false
}

// UserMessage renders err for a notification: backend messages for status
// errors, the plain error text otherwise.
func UserMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message()
	}
	return err.Error()
}
