package newsletter

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidEmail is returned for addresses that cannot be subscribed.
var ErrInvalidEmail = errors.New("valid email is required")

// ErrRateLimit indicates the newsletter API returned 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("newsletter rate limited (retry after %s)", e.RetryAfter)
}

// ErrUnavailable indicates the newsletter API is down or unreachable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("newsletter unavailable: %v", e.Err)
	}
	return "newsletter unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// APIError is a non-retryable rejection from the newsletter API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsletter API error %d: %s", e.Status, e.Message)
}

// Transient reports whether err is worth retrying.
func Transient(err error) bool {
	var rl *ErrRateLimit
	var un *ErrUnavailable
	return errors.As(err, &rl) || errors.As(err, &un)
}
