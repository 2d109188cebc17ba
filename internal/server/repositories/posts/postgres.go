package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectPosts = `SELECT p.id, p.title, p.content, p.author_id, u.username,
		 COALESCE(p.attachment_key, ''), p.created_at, p.updated_at
		 FROM posts p JOIN users u ON u.id = p.author_id
		 `

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (title, content, author_id)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, post.Title, post.Content, post.AuthorID).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	post := &models.Post{}
	err := scanPost(r.db.QueryRowContext(ctx, selectPosts+`WHERE p.id = $1`, id), post)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Post, error) {
	return r.list(ctx, selectPosts+`ORDER BY p.created_at DESC`)
}

func (r *PostgresRepository) FindByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	if !validID(authorID) {
		return []*models.Post{}, nil
	}
	return r.list(ctx, selectPosts+`WHERE p.author_id = $1 ORDER BY p.created_at DESC`, authorID)
}

func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	if !validID(post.ID) {
		return nil, common.ErrorNotFound
	}

	query :=
		`UPDATE posts SET title = $2, content = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, post.ID, post.Title, post.Content).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	return r.execOne(ctx, `DELETE FROM posts WHERE id = $1`, id)
}

func (r *PostgresRepository) SetAttachment(ctx context.Context, id string, key string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	return r.execOne(ctx, `UPDATE posts SET attachment_key = $2, updated_at = now() WHERE id = $1`, id, key)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0)
	for rows.Next() {
		post := &models.Post{}
		if err := scanPost(rows, post); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner, p *models.Post) error {
	return s.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.AuthorName,
		&p.AttachmentKey, &p.CreatedAt, &p.UpdatedAt)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
