// Package common defines the sentinel error taxonomy and shared constants
// used by the contact-book server, its HTTP boundary and the CLI client.
// Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Error classes. Every error returned by a service wraps exactly one of them.
	ErrorNotFound     = errors.New("not found")
	ErrorConflict     = errors.New("conflict")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation failed")
	ErrorInternal     = errors.New("internal error")

	// Conflict reasons.
	ErrEmailTaken = fmt.Errorf("%w: account already exists", ErrorConflict)

	// Unauthorized reasons. They are distinguishable internally (logs, tests)
	// but the HTTP boundary renders all of them identically.
	ErrInvalidEmail         = fmt.Errorf("%w: invalid email", ErrorUnauthorized)
	ErrInvalidPassword      = fmt.Errorf("%w: invalid password", ErrorUnauthorized)
	ErrEmailNotConfirmed    = fmt.Errorf("%w: email not confirmed", ErrorUnauthorized)
	ErrInvalidToken         = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
	ErrTokenExpired         = fmt.Errorf("%w: token expired", ErrorUnauthorized)
	ErrInvalidScope         = fmt.Errorf("%w: invalid token scope", ErrorUnauthorized)
	ErrRefreshTokenMismatch = fmt.Errorf("%w: refresh token mismatch", ErrorUnauthorized)
)
