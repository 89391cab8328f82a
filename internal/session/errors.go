package session

import (
	"context"
	"errors"
	"fmt"

	"document-rag-client/internal/rag"
)

// ValidationReason says why an operation was refused before any request was sent.
type ValidationReason string

const (
	NoFileSelected    ValidationReason = "no file selected"
	EmptyQuestion     ValidationReason = "empty question"
	RequestInProgress ValidationReason = "request in progress"
)

// ValidationError is returned by Upload and Ask when the input is refused.
// It never leaves the session in a changed state.
type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

// Is matches any ValidationError with the same reason.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Reason == e.Reason
}

// Sentinels for errors.Is. Upload and Ask return fresh values that match them.
var (
	ErrNoFileSelected    = &ValidationError{Reason: NoFileSelected}
	ErrEmptyQuestion     = &ValidationError{Reason: EmptyQuestion}
	ErrRequestInProgress = &ValidationError{Reason: RequestInProgress}
)

func newValidationError(reason ValidationReason) error {
	return &ValidationError{Reason: reason}
}

// errorKind labels a backend error for logging.
func errorKind(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case rag.IsNetworkError(err):
		return "network"
	case rag.IsServerError(err):
		return "server"
	default:
		return "local"
	}
}
