package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Token errors
const (
	// ErrCodeInvalidToken indicates the token is malformed, tampered, or expired.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	// ErrCodeRevokedToken indicates the token was revoked before expiry.
	ErrCodeRevokedToken ErrorCode = "REVOKED_TOKEN"
	// ErrCodeAccessTokenRequired indicates a refresh token was presented where an access token is required.
	ErrCodeAccessTokenRequired ErrorCode = "ACCESS_TOKEN_REQUIRED"
	// ErrCodeRefreshTokenRequired indicates an access token was presented where a refresh token is required.
	ErrCodeRefreshTokenRequired ErrorCode = "REFRESH_TOKEN_REQUIRED"
	// ErrCodeUnauthorized indicates missing or malformed credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Account errors
const (
	// ErrCodeInvalidCredentials indicates a failed login. Identical for
	// unknown email and wrong password.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeAccountNotVerified indicates the account has not completed email verification.
	ErrCodeAccountNotVerified ErrorCode = "ACCOUNT_NOT_VERIFIED"
	// ErrCodeInsufficientPermission indicates the caller's role is not allowed.
	ErrCodeInsufficientPermission ErrorCode = "INSUFFICIENT_PERMISSION"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodePasswordMismatch indicates new and confirm passwords differ.
	ErrCodePasswordMismatch ErrorCode = "PASSWORD_MISMATCH"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a database error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)
