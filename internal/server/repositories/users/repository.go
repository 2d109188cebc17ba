// Package users is the credential store: user records keyed by id with
// unique usernames and emails.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// Repository persists users. Lookups by key return common.ErrorNotFound
// when nothing matches; Create returns common.ErrUsernameTaken or
// common.ErrEmailTaken when a uniqueness rule would be broken.
// Username comparison is case-sensitive.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
