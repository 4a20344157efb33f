package model

import (
	"errors"
	"fmt"
)

// ErrLocked is returned when another run holds the export directory lock.
var ErrLocked = errors.New("another jobfeed run holds the lock")

// HTTPError wraps an unexpected HTTP status code so callers can inspect it.
type HTTPError struct {
	StatusCode int
	Body       string // first bytes of the response body, may be empty
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
