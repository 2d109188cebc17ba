// Package common defines shared constants and sentinel errors used across
// client and server layers of GophBlog. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")

	// Credential errors. "No such user" and "wrong password" are deliberately
	// the same value.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Uniqueness errors.
	ErrConflict      = errors.New("conflict")
	ErrUsernameTaken = fmt.Errorf("%w: username is already taken", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email is already in use", ErrConflict)

	// Auth errors. Every token failure is also ErrUnauthenticated.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrMissingToken    = fmt.Errorf("%w: missing token", ErrUnauthenticated)
	ErrInvalidToken    = fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	ErrTokenExpired    = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrUnknownSubject  = fmt.Errorf("%w: unknown subject", ErrUnauthenticated)
)

// UnauthenticatedReason returns the short reason carried by one of the token
// errors above ("token expired", "missing token", ...). It returns an empty
// string for errors outside that family.
func UnauthenticatedReason(err error) string {
	for _, e := range []error{ErrTokenExpired, ErrMissingToken, ErrUnknownSubject, ErrInvalidToken} {
		if errors.Is(err, e) {
			return e.Error()[len(ErrUnauthenticated.Error())+2:]
		}
	}
	return ""
}
