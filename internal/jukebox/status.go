package jukebox

import (
	"errors"
	"fmt"

	jberrors "github.com/tessro/jukebox/internal/errors"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func newStatusError(method, path string, resp *Response) *StatusError {
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed for %s (%d)", e.Path, e.StatusCode)
}

// Unwrap maps 5xx responses to ErrServerError.
func (e *StatusError) Unwrap() error {
	if e.StatusCode >= 500 {
		return jberrors.ErrServerError
	}
	return nil
}

// IsStatus reports whether err is a StatusError with one of the given codes.
func IsStatus(err error, codes ...int) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	for _, code := range codes {
		if se.StatusCode == code {
			return true
		}
	}
	return false
}
