package model

import "errors"

var (
	// ErrValidation marks input that violates an aggregate invariant.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// StatementFormatError reports an uploaded statement that could not be read.
// Its message is safe to show to the uploader.
type StatementFormatError struct {
	Reason string
	Err    error
}

func (e *StatementFormatError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *StatementFormatError) Unwrap() error { return e.Err }
