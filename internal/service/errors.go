package service

import (
	"errors"
	"fmt"

	"playmaker/internal/domain"
)

var (
	// ErrNothingToSave is returned instead of saving an empty board.
	ErrNothingToSave = errors.New("nothing to save")
	// ErrSaveInProgress is returned while another save of the board is pending.
	ErrSaveInProgress = errors.New("a save is already in progress")
)

// SaveError is a failed save. Message is what the user should see.
type SaveError struct {
	Status  int
	Message string
	Err     error
}

func (e *SaveError) Error() string { return e.Message }
func (e *SaveError) Unwrap() error { return e.Err }

// newSaveError picks the most specific message available: the backend's
// own message, then the transport error, then a generic fallback with the
// HTTP status when one was received.
func newSaveError(err error) *SaveError {
	se := &SaveError{Err: err}
	var be *domain.BackendError
	if errors.As(err, &be) {
		se.Status = be.Status
		switch {
		case be.Message != "":
			se.Message = be.Message
		case be.Err != nil && be.Err.Error() != "":
			se.Message = be.Err.Error()
		}
	} else if err != nil && err.Error() != "" {
		se.Message = err.Error()
	}
	if se.Message == "" {
		se.Message = "save failed"
		if se.Status != 0 {
			se.Message = fmt.Sprintf("save failed (HTTP %d)", se.Status)
		}
	}
	return se
}
