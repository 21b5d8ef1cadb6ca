package platform

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCredentials marks a rejected login for the shared account,
// typically because another process rotated the password underneath us.
var ErrInvalidCredentials = errors.New("invalid account credentials")

// StatusError is an unexpected HTTP status from the platform.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("platform returned %d for %s", e.Code, e.URL)
}

// RateLimitError carries the wait the platform asked for.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// IsTransient reports whether the error is a retryable upstream failure:
// rate limiting or a 5xx/429 status. Transient failures cool the loop down,
// they never kill it.
func IsTransient(err error) bool {
	var rate *RateLimitError
	if errors.As(err, &rate) {
		return true
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.Code == 429 || (status.Code >= 500 && status.Code < 600)
	}
	return false
}
