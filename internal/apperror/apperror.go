// Package apperror defines the closed set of error kinds the application can
// surface to clients. Services return these; the HTTP layer maps them to
// status codes and never leaks anything else.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying each kind. Use errors.Is against these to
// classify an error anywhere in a wrapped chain.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotFound           = errors.New("not found")
	ErrConfiguration      = errors.New("configuration error")
)

// AppError pairs an error kind with a message that is safe to show clients.
// The Message never contains internal detail (SQL, file paths, hash output).
type AppError struct {
	Err     error  // one of the sentinel errors above
	Message string // human-readable, client-safe
	Field   string // optional: input field that caused a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// InvalidCredentials is returned for both "unknown email" and "wrong
// password". The two cases must stay indistinguishable to the client so the
// login endpoint cannot be used to enumerate registered accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Invalid credentials",
	}
}

// Unauthenticated means no credential was presented at all (missing or
// malformed Authorization header).
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "Authentication required",
	}
}

// InvalidToken covers every token verification failure: bad signature,
// tampered payload, expired. The gate deliberately does not tell callers
// which one it was.
func InvalidToken() *AppError {
	return &AppError{
		Err:     ErrInvalidToken,
		Message: "Invalid or expired token",
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func Configuration(message string) *AppError {
	return &AppError{
		Err:     ErrConfiguration,
		Message: message,
	}
}
