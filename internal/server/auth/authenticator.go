package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// SubjectFinder looks up the user a token was issued to.
type SubjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticator turns a presented Authorization header into a Principal.
type Authenticator struct {
	codec *TokenCodec
	users SubjectFinder
	now   func() time.Time
}

func NewAuthenticator(codec *TokenCodec, users SubjectFinder, now func() time.Time) *Authenticator {
	if now == nil {
		now = time.Now
	}
	return &Authenticator{codec: codec, users: users, now: now}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", common.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrInvalidToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrMissingToken
	}
	return token, nil
}

// Resolve verifies the token in header and confirms its subject still
// exists. Every authentication failure wraps common.ErrUnauthenticated;
// a token for a deleted user fails closed with common.ErrUnknownSubject.
// Other errors come from the user lookup and are not auth failures.
func (a *Authenticator) Resolve(ctx context.Context, header string) (Principal, error) {
	token, err := BearerToken(header)
	if err != nil {
		return Principal{}, err
	}

	claims, err := a.codec.Verify(token, a.now())
	if err != nil {
		return Principal{}, err
	}

	user, err := a.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Principal{}, common.ErrUnknownSubject
		}
		return Principal{}, fmt.Errorf("subject lookup: %w", err)
	}

	return Principal{ID: claims.Subject, Username: user.Username, Role: claims.Role}, nil
}
