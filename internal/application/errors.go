package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrQueryFailed        = errors.New("query failed")
	ErrNotFound           = errors.New("not found")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StorageError reports that a session could not be opened against a location
type StorageError struct {
	Location string
	Reason   string
	Err      error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot open %s: %s: %v", e.Location, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot open %s: %s", e.Location, e.Reason)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// QueryError reports a read that failed after the session was opened
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func (e *QueryError) Is(target error) bool {
	return target == ErrQueryFailed
}
