package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubjects struct {
	users map[string]*models.User
	err   error
}

func (f *fakeSubjects) FindByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func newTestAuthenticator(t *testing.T, now *time.Time) (*Authenticator, *TokenCodec, *fakeSubjects) {
	t.Helper()
	codec := newTestCodec(t, time.Minute)
	subjects := &fakeSubjects{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "alice", Role: models.RoleUser},
	}}
	return NewAuthenticator(codec, subjects, func() time.Time { return *now }), codec, subjects
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		err    error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"BEARER   abc  ", "abc", nil},
		{"", "", common.ErrMissingToken},
		{"   ", "", common.ErrMissingToken},
		{"Bearer ", "", common.ErrInvalidToken},
		{"Bearer", "", common.ErrInvalidToken},
		{"Basic dXNlcjpwdw==", "", common.ErrInvalidToken},
		{"abc", "", common.ErrInvalidToken},
	}
	for _, tc := range cases {
		got, err := BearerToken(tc.header)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, "header %q", tc.header)
			continue
		}
		require.NoError(t, err, "header %q", tc.header)
		assert.Equal(t, tc.want, got)
	}
}

func TestResolve_Success(t *testing.T) {
	now := testNow
	a, codec, _ := newTestAuthenticator(t, &now)

	tok, err := codec.Issue("u1", models.RoleUser, now)
	require.NoError(t, err)

	p, err := a.Resolve(context.Background(), "Bearer "+tok.Value)
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: "u1", Username: "alice", Role: models.RoleUser}, p)
}

func TestResolve_RoleFromToken(t *testing.T) {
	now := testNow
	a, codec, _ := newTestAuthenticator(t, &now)

	tok, err := codec.Issue("u1", models.RoleAdmin, now)
	require.NoError(t, err)

	p, err := a.Resolve(context.Background(), "Bearer "+tok.Value)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

func TestResolve_Failures(t *testing.T) {
	now := testNow
	a, codec, _ := newTestAuthenticator(t, &now)

	valid, err := codec.Issue("u1", models.RoleUser, now)
	require.NoError(t, err)
	ghost, err := codec.Issue("deleted-user", models.RoleUser, now)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		at     time.Time
		want   error
		reason string
	}{
		{"missing", "", now, common.ErrMissingToken, "missing token"},
		{"wrong scheme", "Token " + valid.Value, now, common.ErrInvalidToken, "invalid token"},
		{"tampered", "Bearer " + valid.Value + "x", now, common.ErrInvalidToken, "invalid token"},
		{"expired", "Bearer " + valid.Value, now.Add(time.Hour), common.ErrTokenExpired, "token expired"},
		{"unknown subject", "Bearer " + ghost.Value, now, common.ErrUnknownSubject, "unknown subject"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now = tc.at
			_, err := a.Resolve(context.Background(), tc.header)
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, common.ErrUnauthenticated)
			assert.Equal(t, tc.reason, common.UnauthenticatedReason(err))
		})
	}
}

func TestResolve_LookupFailureIsNotAuthFailure(t *testing.T) {
	now := testNow
	a, codec, subjects := newTestAuthenticator(t, &now)
	subjects.err = errors.New("db down")

	tok, err := codec.Issue("u1", models.RoleUser, now)
	require.NoError(t, err)

	_, err = a.Resolve(context.Background(), "Bearer "+tok.Value)
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrUnauthenticated))
}
