package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenErrors_AreUnauthenticated(t *testing.T) {
	for _, err := range []error{ErrMissingToken, ErrInvalidToken, ErrTokenExpired, ErrUnknownSubject} {
		assert.ErrorIs(t, err, ErrUnauthenticated, err.Error())
	}
	assert.NotErrorIs(t, ErrInvalidCredentials, ErrUnauthenticated)
}

func TestConflictErrors(t *testing.T) {
	assert.ErrorIs(t, ErrUsernameTaken, ErrConflict)
	assert.ErrorIs(t, ErrEmailTaken, ErrConflict)
	assert.NotErrorIs(t, ErrUsernameTaken, ErrEmailTaken)
}

func TestUnauthenticatedReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrTokenExpired, "token expired"},
		{ErrMissingToken, "missing token"},
		{ErrInvalidToken, "invalid token"},
		{ErrUnknownSubject, "unknown subject"},
		{fmt.Errorf("resolve: %w", ErrTokenExpired), "token expired"},
		{ErrUnauthenticated, ""},
		{errors.New("boom"), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UnauthenticatedReason(tt.err))
	}
}
