// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across store/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates rejected input (bad username/email/password/code shape).
	ErrValidation = errors.New("validation failed")

	// ErrRemoteUnavailable indicates the remote mirror is unreachable or not configured.
	// Callers treat it as a normal fallback branch, not a failure.
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrCodeExpired indicates a one-time passcode past its TTL.
	ErrCodeExpired = errors.New("code expired")

	// ErrCodeMismatch indicates a one-time passcode that does not match the issued one.
	ErrCodeMismatch = errors.New("code mismatch")
)
