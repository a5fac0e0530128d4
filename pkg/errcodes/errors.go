// Package errcodes defines the errors the HTTP API reports to clients.
package errcodes

import (
	"fmt"
	"net/http"
)

// Error is a client-facing error. Code is a stable snake_case identifier,
// Message is meant for people.
type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

// Is matches errors with the same status, message and code, so tests and
// callers can compare against a freshly built error.
func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return *te == *err
}

func newError(httpCode int, code, format string, args ...interface{}) error {
	return &Error{HTTPCode: httpCode, Message: fmt.Sprintf(format, args...), Code: code}
}

// NotFound reports a missing author, series, book or other resource.
func NotFound(resource string) error {
	return newError(http.StatusNotFound, "not_found", "%s not found.", resource)
}

// Busy reports that an import or extraction is already running.
func Busy(operation string) error {
	return newError(http.StatusConflict, "busy", "Another %s is already in progress.", operation)
}

func BadRequest(msg string) error {
	return newError(http.StatusBadRequest, "bad_request", "%s", msg)
}

func ValidationError(msg string) error {
	return newError(http.StatusUnprocessableEntity, "validation_error", "%s", msg)
}

func ValidationTypeError(msg string) error {
	return newError(http.StatusUnprocessableEntity, "validation_type_error", "%s", msg)
}

func UnknownParameter(param string) error {
	return newError(http.StatusUnprocessableEntity, "unknown_parameter", "Unknown Parameter %q", param)
}

func MalformedPayload() error {
	return newError(http.StatusBadRequest, "malformed_payload", "Malformed Payload")
}

func EmptyRequestBody() error {
	return newError(http.StatusBadRequest, "empty_request_body", "Request body can't be empty.")
}

func UnsupportedMediaType() error {
	return newError(http.StatusUnsupportedMediaType, "unsupported_media_type", "Unsupported Media Type")
}
