package aircall

import (
	"errors"
	"fmt"
)

// ErrPaginationLimit is returned by RequestAllItems when the configured page
// ceiling is reached before the server reports the last page.
var ErrPaginationLimit = errors.New("pagination limit exceeded")

// APIError is the uniform wrapper for every transport-level failure:
// non-2xx responses, network errors, and malformed JSON bodies. The original
// status and message are preserved for the caller.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("aircall API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("aircall API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
