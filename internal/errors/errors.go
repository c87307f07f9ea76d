package errors

import (
	"fmt"
	"net/http"
)

// AppError is the interface implemented by every typed failure in the
// application. The presenter uses HTTPStatus to pick the wire status code.
type AppError interface {
	Error() string
	HTTPStatus() int
	Unwrap() error
}

// ValidationError rejects client input before it reaches the store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string   { return e.Msg }
func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error   { return nil }

// NewValidationError creates a validation failure with the given detail.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError signals that a requested resource does not exist.
// Emptiness from the store is reinterpreted into this terminal failure;
// the service never returns an empty success value instead.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string   { return e.Msg }
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error   { return nil }

// NewNotFoundError creates a not-found failure with the given detail.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// UnauthorizedError signals missing or invalid credentials.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string   { return e.Msg }
func (e *UnauthorizedError) HTTPStatus() int { return http.StatusUnauthorized }
func (e *UnauthorizedError) Unwrap() error   { return nil }

// NewUnauthorizedError creates an authentication failure.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError signals valid credentials lacking the required role.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string   { return e.Msg }
func (e *ForbiddenError) HTTPStatus() int { return http.StatusForbidden }
func (e *ForbiddenError) Unwrap() error   { return nil }

// NewForbiddenError creates an authorization failure.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// InternalError wraps unexpected failures from infrastructure (store,
// token signing, serialization). The wrapped cause stays available for
// logging but never leaks onto the wire.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string   { return fmt.Sprintf("%s: %v", e.Msg, e.Err) }
func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error   { return e.Err }

// NewInternalError wraps an infrastructure failure.
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}
