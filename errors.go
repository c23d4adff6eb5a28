package signpdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for export failures.
var (
	ErrInvalidParam       = errors.New("signpdf: invalid parameter")
	ErrUnreadableDocument = errors.New("signpdf: unreadable document")
	ErrNoPages            = errors.New("signpdf: document has no pages")
)

// OpError represents an error that occurred during a specific operation.
// It wraps an underlying error and includes the operation name for context.
type OpError struct {
	Op  string // operation name, e.g. "Flatten", "Certificate"
	Err error  // underlying error
}

func (e *OpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signpdf.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("signpdf.%s: unknown error", e.Op)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// newOpError creates a new OpError wrapping the given error with operation context.
func newOpError(op string, err error) *OpError {
	return &OpError{Op: op, Err: err}
}

// unreadable wraps cause so that it matches ErrUnreadableDocument while
// keeping the original message.
func unreadable(cause error) error {
	return fmt.Errorf("%w: %w", ErrUnreadableDocument, cause)
}
