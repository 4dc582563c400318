package apiclient

import (
	"fmt"

	"github.com/go-faster/errors"
)

// GenericMessage is shown when neither the error envelope nor the raw body carry a message.
const GenericMessage = "Eroare de server."

// APIError is the single failure contract of the transport. Message is meant to be shown
// to the admin verbatim. Status is 0 when no HTTP response was received.
type APIError struct {
	Status  int
	Message string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// Detail includes the status and underlying cause, for logs.
func (e *APIError) Detail() string {
	if e.cause != nil {
		return fmt.Sprintf("status=%d message=%q cause=%v", e.Status, e.Message, e.cause)
	}
	return fmt.Sprintf("status=%d message=%q", e.Status, e.Message)
}

// Message returns the user-facing text of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// IsTransport reports whether err means the backend was never reached.
func IsTransport(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 0
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
