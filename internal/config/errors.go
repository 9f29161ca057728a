package config

import "strings"

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems []string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}
