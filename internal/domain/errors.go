package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("access denied")
	ErrUnauthorized = errors.New("not authenticated")
	ErrInvalidInput = errors.New("invalid input")
)

type ValidationErrorType string

const (
	ErrRequired     ValidationErrorType = "required"
	ErrInvalidField ValidationErrorType = "invalid_field"
	ErrMaxLength    ValidationErrorType = "max_length"
	ErrMinLength    ValidationErrorType = "min_length"
	ErrDateRange    ValidationErrorType = "date_range"
)

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string              `json:"field"`
	Message string              `json:"message"`
	Type    ValidationErrorType `json:"type"`
	Value   interface{}         `json:"value,omitempty"`
}

func NewValidationError(field, message string, errType ValidationErrorType) *ValidationError {
	return &ValidationError{Field: field, Message: message, Type: errType}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (ve ValidationErrors) Unwrap() error { return ErrInvalidInput }

// Has reports whether a field has at least one error.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Messages returns field -> first message, the shape forms render inline.
func (ve ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, len(ve))
	for _, e := range ve {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// InputError is a rejected request whose message is shown to the client
// verbatim.
type InputError struct {
	Message string
}

func NewInputError(message string) *InputError { return &InputError{Message: message} }

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Unwrap() error { return ErrInvalidInput }
