// Package common defines shared constants and sentinel errors used across
// the repository, service and transport layers. Callers should use errors.Is
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrValidation         = errors.New("validation failed")

	// Authorization refinements, both match ErrForbidden.
	ErrNotOwner            = fmt.Errorf("%w: you can only modify your own account", ErrForbidden)
	ErrRoleChangeForbidden = fmt.Errorf("%w: only admin users can change roles", ErrForbidden)

	// Credential infrastructure errors.
	ErrHashing    = errors.New("error hashing password")
	ErrComparison = errors.New("error comparing password")

	// Token errors. ErrTokenExpired also matches ErrInvalidToken.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
)
