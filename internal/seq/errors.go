package seq

import (
	"errors"
	"fmt"
)

// Errors returned by builder operations.
var (
	// ErrIndexOutOfRange indicates a logical index or count outside the content.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidArgument indicates a nil callback or an empty required sequence.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCapacityExceeded indicates growth beyond the builder's maximum capacity.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrStaleView indicates a View was used after its builder was mutated.
	ErrStaleView = errors.New("view invalidated by mutation")
)

// RangeError describes a rejected index or range.
type RangeError struct {
	Op    string
	Index int
	Count int
	Len   int
}

func (e *RangeError) Error() string {
	if e.Count != 0 {
		return fmt.Sprintf("%s [%d, %d) with length %d: %v", e.Op, e.Index, e.Index+e.Count, e.Len, ErrIndexOutOfRange)
	}
	return fmt.Sprintf("%s at %d with length %d: %v", e.Op, e.Index, e.Len, ErrIndexOutOfRange)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrIndexOutOfRange
}

func outOfRange(op string, index, count, length int) error {
	return &RangeError{Op: op, Index: index, Count: count, Len: length}
}

func invalidArg(op, what string) error {
	return fmt.Errorf("%s: %s: %w", op, what, ErrInvalidArgument)
}
