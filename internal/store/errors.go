package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every store implementation. Entity-specific errors
// wrap one of the generic ones so callers can match at either level.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicate     = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed wraps commit failures.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrUserNotFound   = fmt.Errorf("%w: user", ErrNotFound)
	ErrBoardNotFound  = fmt.Errorf("%w: board", ErrNotFound)
	ErrListNotFound   = fmt.Errorf("%w: list", ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("%w: board member", ErrNotFound)

	ErrEmailExists    = fmt.Errorf("%w: email", ErrDuplicate)
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)
	ErrMemberExists   = fmt.Errorf("%w: board member", ErrDuplicate)
)

// IsNotFoundError reports whether err is ErrNotFound or one of its entity variants.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is ErrDuplicate or one of its entity variants.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError records which operation on which entity failed. It unwraps to
// the underlying cause.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := e.Operation + " operation on " + e.Entity + " failed: " + e.Message
	if e.Err == nil {
		return msg
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
