package credentials

import "fmt"

// Error types for admin password operations
type PasswordNotSetError struct{}

type PasswordAlreadySetError struct{}

type InvalidPasswordError struct{}

type WeakPasswordError struct {
	MinLength int
}

func (e *PasswordNotSetError) Error() string {
	return "Admin password has not been set up"
}

func (e *PasswordAlreadySetError) Error() string {
	return "Admin password already exists"
}

func (e *InvalidPasswordError) Error() string {
	return "Invalid password"
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("Password must be at least %d characters long", e.MinLength)
}

// helper functions for error handling

func IsPasswordNotSetError(err error) bool {
	_, ok := err.(*PasswordNotSetError)
	return ok
}

func IsPasswordAlreadySetError(err error) bool {
	_, ok := err.(*PasswordAlreadySetError)
	return ok
}

func IsInvalidPasswordError(err error) bool {
	_, ok := err.(*InvalidPasswordError)
	return ok
}

func IsWeakPasswordError(err error) bool {
	_, ok := err.(*WeakPasswordError)
	return ok
}

func NewPasswordNotSetError() error {
	return &PasswordNotSetError{}
}

func NewPasswordAlreadySetError() error {
	return &PasswordAlreadySetError{}
}

func NewInvalidPasswordError() error {
	return &InvalidPasswordError{}
}

func NewWeakPasswordError(minLength int) error {
	return &WeakPasswordError{MinLength: minLength}
}
