package application

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "treeID" -> "tree ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"treeID": "tree ID",
		"url":    "URL",
		"rawURL": "URL",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateTreeID parses a tree identifier.
// Returns a ValidationError wrapping ErrInvalidID if it is not a UUID.
func ValidateTreeID(fieldName, id string) (uuid.UUID, error) {
	if err := ValidateRequired(fieldName, id); err != nil {
		return uuid.Nil, err
	}
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidID, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected %s to be a UUID, got: %s", formatFieldName(fieldName), id),
		})
	}
	return parsed, nil
}

// ValidateURL checks that value is an absolute http or https URL
func ValidateURL(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected an http(s) URL, got: %s", value),
		}
	}
	return nil
}
