// Package services contains server-side business logic: account
// registration and login, and post management with ownership checks.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token *auth.Token
	User  *models.User
}

// UserService handles registration, login and the admin bootstrap.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hashes      *auth.HashPool
	tokens      *auth.TokenCodec
	now         func() time.Time
}

func NewUserService(m repomanager.RepositoryManager, hashes *auth.HashPool, tokens *auth.TokenCodec, now func() time.Time) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{repomanager: m, hashes: hashes, tokens: tokens, now: now}
}

// Register creates a USER account. It does not log the user in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validationError(in.Validate()); err != nil {
		return nil, err
	}
	return s.create(ctx, in, models.RoleUser)
}

// Login checks credentials and issues an access token. Unknown usernames
// and wrong passwords both yield common.ErrInvalidCredentials after
// roughly the same amount of hashing work.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	repo := s.repomanager.Users()

	user, err := repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if err := s.hashes.VerifyDummy(ctx, password); err != nil {
				return nil, err
			}
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hashes.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role, s.now())
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// SeedAdmin creates the administrative account unless it already exists.
// An empty password disables seeding. It reports whether a user was created.
func (s *UserService) SeedAdmin(ctx context.Context, in RegisterInput) (bool, error) {
	if in.Password == "" {
		return false, nil
	}
	if err := validationError(in.Validate()); err != nil {
		return false, err
	}

	exists, err := s.repomanager.Users().ExistsByUsername(ctx, in.Username)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := s.create(ctx, in, models.RoleAdmin); err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *UserService) create(ctx context.Context, in RegisterInput, role models.Role) (*models.User, error) {
	repo := s.repomanager.Users()

	taken, err := repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if taken {
		return nil, common.ErrUsernameTaken
	}

	taken, err = repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		return nil, common.ErrEmailTaken
	}

	hash, err := s.hashes.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	// a concurrent registration may still win here; Create reports it as
	// the same taken error
	u, err := repo.Create(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}
