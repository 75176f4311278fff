package model

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotFound matches any *ModelNotFoundError.
	ErrModelNotFound = errors.New("model not found")
	// ErrInferenceFailure matches any *InferenceError.
	ErrInferenceFailure = errors.New("inference failure")
)

// ModelNotFoundError is returned at startup when the model artifact cannot
// be opened.
type ModelNotFoundError struct {
	Path string
	Err  error
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model not found at %s: %v", e.Path, e.Err)
}

func (e *ModelNotFoundError) Unwrap() []error { return []error{ErrModelNotFound, e.Err} }

// InferenceError wraps a failed or unusable classifier call.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() []error { return []error{ErrInferenceFailure, e.Err} }
