// Package common defines shared constants and sentinel errors used across
// server layers of authkeeper. Callers should use errors.Is to match these
// values; the HTTP boundary maps them to status codes.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Caller input is malformed. See ValidationError for field details.
	ErrValidation = errors.New("validation failed")

	// Signup errors.
	ErrDuplicateUser = errors.New("user with this email already exists")

	// Signin errors. Returned for both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Credential hasher failures (never returned for a plain mismatch).
	ErrHashing = errors.New("password hashing failed")

	// Auth errors (invalid, tampered or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
