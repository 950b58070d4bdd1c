package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrWatchStdin is returned when watching a run that reads stdin.
	ErrWatchStdin = errors.New("watch needs an input file, not stdin")

	// ErrOutputIsInput is returned when a watched run would overwrite its
	// own input.
	ErrOutputIsInput = errors.New("output file is the input file")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "read", "write", "script")
	Target string // Target of the operation, usually a path
	Err    error  // Underlying error
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
