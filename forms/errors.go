package forms

import (
	"fmt"
	"strings"
)

// FieldError is a client-side validation failure for one form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors is ordered: the first entry is what the page shows.
type ValidationErrors []FieldError

func (v ValidationErrors) OK() bool {
	return len(v) == 0
}

// First returns the message shown to the admin, or "" when valid.
func (v ValidationErrors) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0].Message
}

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, " ")
}

// Err returns v as an error, or nil when there is nothing to report.
func (v ValidationErrors) Err() error {
	if v.OK() {
		return nil
	}
	return v
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

func requiredMessage(label string) string {
	return fmt.Sprintf("Campul %s este obligatoriu.", label)
}

func numericMessage(label string) string {
	return fmt.Sprintf("Campul %s trebuie sa fie numeric.", label)
}
