// Package auth holds the authentication and authorization core: the token
// codec, password hashing, principal resolution and the ownership guard.
package auth

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is what an access token asserts: the subject (user id) and role,
// plus the standard iat/exp pair.
type Claims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
}

// Token is an issued access token together with its decoded fields.
// IssuedAt and ExpiresAt are truncated to whole seconds, as on the wire.
type Token struct {
	Value     string
	Subject   string
	Role      models.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies HS256 access tokens with a process-wide key.
// It is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenCodec copies secretKey so later changes by the caller have no effect.
func NewTokenCodec(secretKey []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("token codec: empty secret key")
	}
	if ttl < time.Second {
		return nil, fmt.Errorf("token codec: ttl %s shorter than 1s", ttl)
	}
	return &TokenCodec{secretKey: bytes.Clone(secretKey), ttl: ttl}, nil
}

func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue signs a token for subject valid from now until now+TTL. The exp
// claim has whole-second precision, so it is rounded up and the token
// never lives shorter than TTL.
func (c *TokenCodec) Issue(subject string, role models.Role, now time.Time) (*Token, error) {
	if subject == "" {
		return nil, errors.New("token codec: empty subject")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("token codec: invalid role %s", role)
	}

	iat := jwt.NewNumericDate(now)
	exp := jwt.NewNumericDate(ceilSecond(now.Add(c.ttl)))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  iat,
			ExpiresAt: exp,
		},
		Role: role,
	})

	tokenString, err := token.SignedString(c.secretKey)
	if err != nil {
		return nil, err
	}

	return &Token{
		Value:     tokenString,
		Subject:   subject,
		Role:      role,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
	}, nil
}

// Verify checks the signature and expiry of tokenString as of now.
//
// It returns common.ErrTokenExpired when the signature is good but
// now >= exp, and common.ErrInvalidToken for every other failure
// (bad signature, wrong algorithm, malformed input, missing claims).
func (c *TokenCodec) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func ceilSecond(t time.Time) time.Time {
	whole := t.Truncate(time.Second)
	if whole.Equal(t) {
		return whole
	}
	return whole.Add(time.Second)
}
