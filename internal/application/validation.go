package application

import (
	"fmt"
	"strings"
)

// ValidateRequired rejects blank values; surrounding whitespace does not count.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: displayName(fieldName) + " is required",
		}
	}
	return nil
}

// ValidateAtLeast rejects counts and limits below lowest.
func ValidateAtLeast(fieldName string, value, lowest int) error {
	if value < lowest {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be at least %d, got %d", displayName(fieldName), lowest, value),
		}
	}
	return nil
}

// field names as they read in messages
var displayNames = map[string]string{
	"location":   "storage location",
	"commitHash": "commit hash",
	"maxChanges": "max changes",
}

func displayName(fieldName string) string {
	if name, ok := displayNames[fieldName]; ok {
		return name
	}
	return fieldName
}
