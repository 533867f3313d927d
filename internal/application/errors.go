package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid ID")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidDocument  = errors.New("invalid document")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DocumentError reports a tree document that could not be decoded
type DocumentError struct {
	ID     string
	Reason string
	Err    error
}

func (e *DocumentError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid document: %s", e.Reason)
	}
	return fmt.Sprintf("invalid document %s: %s", e.ID, e.Reason)
}

func (e *DocumentError) Is(target error) bool {
	return target == ErrInvalidDocument
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
