package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tasteofegypt/internal/lifecycle"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = lifecycle.ErrInvalidTransition
	ErrInvalidState       = errors.New("invalid order state")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// ValidationError carries a message per offending field, keyed by the
// field's JSON path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
