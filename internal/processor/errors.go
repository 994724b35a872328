package processor

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the operator declines the confirmation prompt.
var ErrCancelled = errors.New("operation cancelled")

// InvalidFolderError is returned when the target folder is missing or is not a directory.
type InvalidFolderError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *InvalidFolderError) Error() string {
	return fmt.Sprintf("%q %s", e.Path, e.Reason)
}

func (e *InvalidFolderError) Unwrap() error {
	return e.Cause
}

// DecodeError is returned when a candidate cannot be read as an image.
type DecodeError struct {
	Path  string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Path, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// DeletionError is returned when an undersized candidate cannot be removed.
type DeletionError struct {
	Path  string
	Cause error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("could not delete %s: %v", e.Path, e.Cause)
}

func (e *DeletionError) Unwrap() error {
	return e.Cause
}
