package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument signals a malformed request parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUpstreamUnavailable signals that the directory backend could not be reached.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamDecode signals an unparseable upstream response.
	ErrUpstreamDecode = errors.New("upstream response decode failed")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// UpstreamStatusError wraps ErrUpstreamUnavailable with the HTTP status the
// backend answered with.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrUpstreamUnavailable.Error(), e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstreamUnavailable }

// NewUpstreamStatus creates an upstream status error.
func NewUpstreamStatus(statusCode int) error {
	return &UpstreamStatusError{StatusCode: statusCode}
}
