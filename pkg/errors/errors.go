package chatbot_errors

import "errors"

// Common errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyExists      = errors.New("already exists")
	ErrRateLimited        = errors.New("rate limited")
	ErrUpstream           = errors.New("upstream service error")
	ErrUpstreamTimeout    = errors.New("upstream service timeout")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Message attaches a client-facing message to a sentinel. errors.Is still
// matches the sentinel, but Error() returns only the message.
func Message(sentinel error, msg string) error {
	return &messageError{sentinel: sentinel, msg: msg}
}

type messageError struct {
	sentinel error
	msg      string
}

func (e *messageError) Error() string { return e.msg }

func (e *messageError) Unwrap() error { return e.sentinel }
