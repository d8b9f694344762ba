package dalil

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is() to check.
var (
	ErrInvalidRequest      = errors.New("dalil: invalid request")
	ErrUnauthorized        = errors.New("dalil: unauthorized")
	ErrRateLimited         = errors.New("dalil: rate limited")
	ErrUpstreamUnavailable = errors.New("dalil: upstream unavailable")
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dalil: api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the response onto a sentinel error.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 400:
		return ErrInvalidRequest
	case 401:
		return ErrUnauthorized
	case 429:
		return ErrRateLimited
	case 502, 503, 504:
		return ErrUpstreamUnavailable
	default:
		return nil
	}
}
