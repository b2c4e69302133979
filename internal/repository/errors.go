package repository

import (
	"errors"
	"fmt"
)

var (
	ErrUpstreamStatus   = errors.New("upstream returned a non-2xx status")
	ErrEmptyBody        = errors.New("upstream response has no body")
	ErrBodyTooLarge     = errors.New("upstream response exceeds the size limit")
	ErrNavigationFailed = errors.New("browser navigation failed")
	ErrRenderTimeout    = errors.New("browser render timed out")
)

// StatusError carries the upstream HTTP status of a failed fetch.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUpstreamStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}
