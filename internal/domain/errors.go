package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// BackendError describes a failed call to the team backend. Message is the
// backend's own message or error field, Err the transport failure, and Status
// the HTTP status when a response was received.
type BackendError struct {
	Status  int
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	case e.Status != 0:
		return fmt.Sprintf("http %d", e.Status)
	default:
		return "backend error"
	}
}

func (e *BackendError) Unwrap() error { return e.Err }
