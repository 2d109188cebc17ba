package client

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, email string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (*models.Session, error)
	Logout()
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListMyPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, title, content string) (*models.Post, error)
	UpdatePost(ctx context.Context, id, title, content string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	AttachmentUploadURL(ctx context.Context, id string) (*models.Attachment, error)
	AttachmentDownloadURL(ctx context.Context, id string) (*models.Attachment, error)
}
