package config

import (
	"errors"
	"fmt"

	"github.com/dshills/gapseq/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting fails validation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrTypeMismatch indicates a setting has the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the dotted setting path, e.g. "pipeline.steps[2].bias".
	Path string
	// Message describes the failure.
	Message string
	// Value is the rejected value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
}

// Unwrap returns ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// TypeError reports a setting whose value cannot be converted to the
// field's type, such as a string where a number is expected.
type TypeError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return "config type error: " + e.Message
}

// Unwrap returns the underlying decode error.
func (e *TypeError) Unwrap() error {
	return e.Err
}

// Is reports ErrTypeMismatch as a match.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
