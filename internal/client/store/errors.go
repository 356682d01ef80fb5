package store

import (
	"fmt"

	"github.com/pkg/errors"
)

// A ValidationError is returned when an input is rejected before reaching the remote store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// A RemoteError wraps any failure reported by the remote store.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

// Cause implements github.com/pkg/errors causer.
func (e *RemoteError) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsRemote reports whether err is a RemoteError.
func IsRemote(err error) bool {
	var rerr *RemoteError
	return errors.As(err, &rerr)
}
