package ai

import (
	"errors"
	"fmt"
)

// ErrMalformedOutput marks a structured call whose answer could not be
// decoded into the requested shape. Recoverable: callers retry once
// with a stricter prompt before giving up.
var ErrMalformedOutput = errors.New("malformed model output")

// BackendError wraps a failed call to an AI provider.
type BackendError struct {
	Provider string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Provider, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
