package patient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedSelection matches any *MalformedSelectionError.
	ErrMalformedSelection = errors.New("malformed selection")
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// MalformedSelectionError reports a categorical value that does not map to
// any option of its field.
type MalformedSelectionError struct {
	Field string
	Value string
}

func (e *MalformedSelectionError) Error() string {
	return fmt.Sprintf("malformed selection for %s: %q", e.Field, e.Value)
}

func (e *MalformedSelectionError) Unwrap() error { return ErrMalformedSelection }

// FieldError describes one measurement outside its domain.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every out-of-domain field of an Input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
