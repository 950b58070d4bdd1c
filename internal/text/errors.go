package text

import (
	"errors"
	"fmt"

	"github.com/dshills/gapseq/internal/seq"
)

// Errors for text operations.
var (
	// ErrNonASCII is returned by WriteByte for bytes outside the ASCII range.
	ErrNonASCII = fmt.Errorf("non-ASCII byte: %w", seq.ErrInvalidArgument)

	// ErrEmptyPattern is returned when a search pattern is empty.
	ErrEmptyPattern = fmt.Errorf("empty pattern: %w", seq.ErrInvalidArgument)

	// ErrInvalidForm is returned for an unknown normalization form name.
	ErrInvalidForm = errors.New("unknown normalization form")
)
