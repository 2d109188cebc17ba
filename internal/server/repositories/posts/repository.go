// Package posts stores blog posts and their attachment keys.
package posts

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// Repository persists posts. Lookups and mutations of a missing id return
// common.ErrorNotFound. Lists are ordered newest first.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	FindAll(ctx context.Context) ([]*models.Post, error)
	FindByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	SetAttachment(ctx context.Context, id string, key string) error
}
