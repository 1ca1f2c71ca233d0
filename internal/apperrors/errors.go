// Package apperrors defines the error taxonomy every core operation
// returns from. The boundary layer maps each kind to an HTTP status and
// a stable machine-readable code; raw internal errors are never sent to
// clients in production.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the fixed taxonomy.
type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindProvider
	KindServer
)

// AppError is the error type carried across all core operations.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the stable machine-readable code for the error kind.
func (e *AppError) Code() string {
	switch e.Kind {
	case KindValidation:
		return "validation_error"
	case KindAuth:
		return "auth_error"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindProvider:
		return "provider_error"
	default:
		return "server_error"
	}
}

// HTTPStatus returns the status the boundary layer responds with.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func Auth(msg string) *AppError {
	return &AppError{Kind: KindAuth, Message: msg}
}

func Forbidden(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

// Provider wraps a payment gateway failure.
func Provider(msg string, err error) *AppError {
	return &AppError{Kind: KindProvider, Message: msg, Err: err}
}

// Server wraps an unexpected internal failure.
func Server(msg string, err error) *AppError {
	return &AppError{Kind: KindServer, Message: msg, Err: err}
}

// From extracts an *AppError from err, wrapping unknown errors as a
// server error so the boundary never leaks internals.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Server("unexpected error", err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
