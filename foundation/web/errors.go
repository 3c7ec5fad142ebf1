package web

import (
	"errors"
	"net/http"
)

// Error is used to pass an error during the request through the
// application with web specific context.
type Error struct {
	Err    error
	Status int
}

// NewRequestError wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewRequestError(err error, status int) error {
	return &Error{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by err, or 500 when err does not
// carry one.
func StatusOf(err error) int {
	var webErr *Error
	if errors.As(err, &webErr) && webErr.Status != 0 {
		return webErr.Status
	}

	return http.StatusInternalServerError
}
