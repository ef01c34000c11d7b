package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation rejects input before any state changes.
	ErrValidation = errors.New("validation failed")
	// ErrCorruptedRecord marks a stored challenge whose shape cannot be trusted.
	ErrCorruptedRecord = errors.New("corrupted record")
	// ErrInvalidTransition is returned when a slot is not in the state a command needs.
	ErrInvalidTransition = errors.New("invalid transition")
)

// FieldError is a validation failure tied to one input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

func invalidField(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

func corrupted(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptedRecord, fmt.Sprintf(format, args...))
}
