// Package common defines shared constants and sentinel errors used across
// the contactbook server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Business-rule errors.
	ErrorConflict   = errors.New("already exists")
	ErrorValidation = errors.New("validation error")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Upstream collaborator failures (mail, object storage).
	ErrorUpstream = errors.New("upstream service error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
