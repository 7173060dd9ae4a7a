package entities

import (
	"fmt"
	"strings"
)

// ValidationResult represents the outcome of validating a document.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a specific validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Summary joins the errors into one line, or returns "" when valid.
func (r *ValidationResult) Summary() string {
	if r == nil || r.Valid {
		return ""
	}
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		field := e.Field
		if field == "" {
			field = "/"
		}
		parts[i] = fmt.Sprintf("%s: %s", field, e.Message)
	}
	return strings.Join(parts, "; ")
}
