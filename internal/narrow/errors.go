package narrow

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrNoSelection indicates narrow was requested without an active,
	// non-empty selection.
	ErrNoSelection = errors.New("no active selection")

	// ErrSessionActive indicates narrow was requested while a session is
	// already active.
	ErrSessionActive = errors.New("narrow session already active")

	// ErrLanguageNotAllowed indicates the source document's language is
	// excluded by configuration.
	ErrLanguageNotAllowed = errors.New("language not allowed for narrowing")

	// ErrWriteBackRejected indicates the host refused the replace-edit.
	ErrWriteBackRejected = errors.New("write-back rejected by host")
)

// OpError wraps a host I/O failure with the operation and target it
// occurred on.
type OpError struct {
	Op     string // Operation name (e.g., "narrow", "sync", "widen")
	Target string // Target of the operation (e.g., document or buffer ID)
	Err    error  // Underlying error
}

// Error returns the formatted error message.
func (e *OpError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}
