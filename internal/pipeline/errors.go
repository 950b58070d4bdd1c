package pipeline

import (
	"errors"
	"fmt"
)

// Pipeline errors.
var (
	// ErrUnknownOp indicates a step names an operation that does not exist.
	ErrUnknownOp = errors.New("pipeline: unknown operation")

	// ErrMissingArgument indicates a step lacks a field its operation needs.
	ErrMissingArgument = errors.New("pipeline: missing argument")

	// ErrInvalidArgument indicates a step field has a value its operation
	// cannot use.
	ErrInvalidArgument = errors.New("pipeline: invalid argument")
)

// StepError reports the step that failed to compile or apply.
type StepError struct {
	// Index is the position of the step in the pipeline.
	Index int
	// Op is the operation name.
	Op string
	// Err is the underlying error.
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingArgument, field)
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, field, fmt.Sprintf(format, args...))
}
