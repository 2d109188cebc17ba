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
	"github.com/dmitrijs2005/gophblog/internal/server/storage"
)

var ErrAttachmentsDisabled = errors.New("attachments are not configured")

// Attachment is a presigned URL for a post's attached object.
type Attachment struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// PostService manages posts. Every operation takes the acting principal
// explicitly; mutations check existence first and ownership second.
type PostService struct {
	repomanager repomanager.RepositoryManager
	presigner   storage.Presigner
	now         func() time.Time
}

// NewPostService accepts a nil presigner, in which case the attachment
// operations return ErrAttachmentsDisabled.
func NewPostService(m repomanager.RepositoryManager, presigner storage.Presigner, now func() time.Time) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{repomanager: m, presigner: presigner, now: now}
}

func (s *PostService) List(ctx context.Context, p auth.Principal) ([]*models.Post, error) {
	if err := auth.CanMutate(p, "", auth.ActionRead).Err(); err != nil {
		return nil, err
	}
	return s.repomanager.Posts().FindAll(ctx)
}

func (s *PostService) ListMine(ctx context.Context, p auth.Principal) ([]*models.Post, error) {
	if err := auth.CanMutate(p, p.ID, auth.ActionRead).Err(); err != nil {
		return nil, err
	}
	return s.repomanager.Posts().FindByAuthor(ctx, p.ID)
}

func (s *PostService) Get(ctx context.Context, p auth.Principal, id string) (*models.Post, error) {
	post, err := s.repomanager.Posts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.CanMutate(p, post.AuthorID, auth.ActionRead).Err(); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, p auth.Principal, in PostInput) (*models.Post, error) {
	if err := validationError(in.Validate()); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, common.ErrForbidden
	}

	post, err := s.repomanager.Posts().Create(ctx, &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		AuthorID:   p.ID,
		AuthorName: p.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, p auth.Principal, id string, in PostInput) (*models.Post, error) {
	if err := validationError(in.Validate()); err != nil {
		return nil, err
	}

	var updated *models.Post
	err := s.authorized(ctx, p, id, auth.ActionWrite, func(ctx context.Context, r repomanager.Repositories, post *models.Post) error {
		post.Title = in.Title
		post.Content = in.Content
		var err error
		updated, err = r.Posts().Update(ctx, post)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, p auth.Principal, id string) error {
	return s.authorized(ctx, p, id, auth.ActionDelete, func(ctx context.Context, r repomanager.Repositories, post *models.Post) error {
		return r.Posts().Delete(ctx, post.ID)
	})
}

// AttachmentUploadURL allocates a new storage key for the post and returns
// a presigned PUT URL for it. Any previous attachment is replaced.
func (s *PostService) AttachmentUploadURL(ctx context.Context, p auth.Principal, id string) (*Attachment, error) {
	if s.presigner == nil {
		return nil, ErrAttachmentsDisabled
	}

	var out *Attachment
	err := s.authorized(ctx, p, id, auth.ActionWrite, func(ctx context.Context, r repomanager.Repositories, post *models.Post) error {
		now := s.now()
		key := storage.NewStorageKey(now)

		url, err := s.presigner.PresignPut(ctx, key)
		if err != nil {
			return err
		}
		if err := r.Posts().SetAttachment(ctx, post.ID, key); err != nil {
			return err
		}
		out = &Attachment{Key: key, URL: url, ExpiresAt: now.Add(storage.PresignExpiry)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AttachmentDownloadURL returns a presigned GET URL for the post's
// attachment, or common.ErrorNotFound if it has none.
func (s *PostService) AttachmentDownloadURL(ctx context.Context, p auth.Principal, id string) (*Attachment, error) {
	if s.presigner == nil {
		return nil, ErrAttachmentsDisabled
	}

	post, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if post.AttachmentKey == "" {
		return nil, common.ErrorNotFound
	}

	url, err := s.presigner.PresignGet(ctx, post.AttachmentKey)
	if err != nil {
		return nil, err
	}
	return &Attachment{Key: post.AttachmentKey, URL: url, ExpiresAt: s.now().Add(storage.PresignExpiry)}, nil
}

// authorized runs fn in a transaction after two separate steps: the post
// must exist (common.ErrorNotFound) and p must be allowed to perform
// action on it (common.ErrForbidden).
func (s *PostService) authorized(ctx context.Context, p auth.Principal, id string, action auth.Action,
	fn func(ctx context.Context, r repomanager.Repositories, post *models.Post) error) error {

	return s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		post, err := r.Posts().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := auth.CanMutate(p, post.AuthorID, action).Err(); err != nil {
			return err
		}

		return fn(ctx, r, post)
	})
}
