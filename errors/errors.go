// Package errors provides unified error handling for the task-collaboration
// API. It implements structured error types with machine-readable codes and
// a fixed HTTP status per code, so handlers never leak internal detail.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// --- Token errors ---

// InvalidToken covers malformed, tampered, and expired tokens. Expiry is
// deliberately indistinguishable from corruption so the response does not
// reveal which check failed.
func InvalidToken() *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Token is invalid or expired.",
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]any{"resolution": "Please get a new token."},
	}
}

// RevokedToken is returned when a token's jti is in the revocation store.
func RevokedToken() *AppError {
	return &AppError{
		Code: ErrCodeRevokedToken, Message: "Token has been revoked.",
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]any{"resolution": "Please get a new token."},
	}
}

// AccessTokenRequired is returned when a refresh token reaches an
// access-only entry point.
func AccessTokenRequired() *AppError {
	return &AppError{
		Code: ErrCodeAccessTokenRequired, Message: "Please provide an access token.",
		HTTPStatus: http.StatusForbidden,
	}
}

// RefreshTokenRequired is returned when an access token reaches a
// refresh-only entry point.
func RefreshTokenRequired() *AppError {
	return &AppError{
		Code: ErrCodeRefreshTokenRequired, Message: "Please provide a refresh token.",
		HTTPStatus: http.StatusForbidden,
	}
}

// MissingCredentials is returned when the Authorization header is absent
// or not a Bearer scheme.
func MissingCredentials() *AppError {
	return &AppError{
		Code: ErrCodeUnauthorized, Message: "Authentication credentials are required.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// --- Account errors ---

// InvalidCredentials is the uniform login failure. The same error is used
// for an unknown email and a wrong password to prevent account enumeration.
func InvalidCredentials() *AppError {
	return &AppError{
		Code: ErrCodeInvalidCredentials, Message: "Invalid email or password.",
		HTTPStatus: http.StatusBadRequest,
	}
}

// AccountNotVerified is returned by the policy gate for unverified accounts.
func AccountNotVerified() *AppError {
	return &AppError{
		Code: ErrCodeAccountNotVerified, Message: "Please verify your account to perform this action.",
		HTTPStatus: http.StatusForbidden,
	}
}

// InsufficientPermission is returned when the caller's role is not in the
// endpoint's allowed set.
func InsufficientPermission() *AppError {
	return &AppError{
		Code: ErrCodeInsufficientPermission, Message: "You are not permitted to perform this action.",
		HTTPStatus: http.StatusForbidden,
	}
}

// --- Resource errors ---

// AlreadyExists creates an error for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these details already exists.", resource),
		HTTPStatus: http.StatusForbidden,
		Details:    map[string]any{"resource": resource},
	}
}

// NotFound creates an error for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource},
	}
}

// --- Validation errors ---

// Validation creates an error for invalid request input.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// PasswordMismatch is returned when new/confirm passwords differ.
func PasswordMismatch() *AppError {
	return &AppError{
		Code: ErrCodePasswordMismatch, Message: "Passwords do not match.",
		HTTPStatus: http.StatusBadRequest,
	}
}

// --- Internal errors ---

// Internal creates an error for an unexpected server fault. The message is
// generic; the cause stays server-side.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// DatabaseError creates an error for a failed store operation.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
