package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// The API layer maps them to HTTP status codes.
var (
	// ErrUserExists indicates the email or username is already registered. (409)
	ErrUserExists = errors.New("user with this email or username already exists")

	// ErrInvalidCredentials indicates an unknown email or a wrong password. (401)
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotBoardMember indicates the caller is not a member of the board. (403)
	ErrNotBoardMember = errors.New("you are not a member of this board")

	// ErrInsufficientPermissions indicates the caller's role does not allow the action. (403)
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// ErrCannotRemoveOwner indicates an attempt to remove the board owner. (403)
	ErrCannotRemoveOwner = errors.New("the board owner cannot be removed")
)

// ServiceError wraps an unexpected failure with the service operation that hit it.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
