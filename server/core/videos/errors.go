package videos

import (
	"errors"
	"fmt"
)

// ErrFlowBusy is returned when a create, edit or delete is submitted while the same flow is still running
var ErrFlowBusy = errors.New("another submission of this form is still in progress")

// Error types for video operations
type ValidationError struct {
	Message string
}

type EncodingError struct {
	Role     MediaRole
	Filename string
	Err      error
}

type VideoNotFoundError struct {
	ID string
}

type VideoAlreadyExistsError struct {
	ID string
}

type StorageError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode %s %q: %v", e.Role, e.Filename, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func (e *VideoNotFoundError) Error() string {
	return "Video not found: " + e.ID
}

func (e *VideoAlreadyExistsError) Error() string {
	return "Video already exists: " + e.ID
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("video storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// helper functions for error handling

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsEncodingError(err error) bool {
	var target *EncodingError
	return errors.As(err, &target)
}

func IsVideoNotFoundError(err error) bool {
	var target *VideoNotFoundError
	return errors.As(err, &target)
}

func IsVideoAlreadyExistsError(err error) bool {
	var target *VideoAlreadyExistsError
	return errors.As(err, &target)
}

func IsStorageError(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func NewEncodingError(role MediaRole, filename string, err error) error {
	return &EncodingError{Role: role, Filename: filename, Err: err}
}

func NewVideoNotFoundError(id string) error {
	return &VideoNotFoundError{ID: id}
}

func NewVideoAlreadyExistsError(id string) error {
	return &VideoAlreadyExistsError{ID: id}
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
