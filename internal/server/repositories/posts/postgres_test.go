package posts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

const (
	postID   = "0b6a3a4e-5d2c-4f1f-9a49-1c0f7cf0d2a1"
	authorID = "7f1c9a52-2b7e-4c55-9d1e-0d3a7f1f6b10"

	insertQ = `(?s)^INSERT\s+INTO\s+posts\s*\(title,\s*content,\s*author_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	selectQ = `(?s)^SELECT\s+p\.id,\s*p\.title,\s*p\.content,\s*p\.author_id,\s*u\.username,\s*COALESCE\(p\.attachment_key,\s*''\),\s*p\.created_at,\s*p\.updated_at\s+FROM\s+posts\s+p\s+JOIN\s+users\s+u\s+ON\s+u\.id\s*=\s*p\.author_id\s+`
	updateQ = `(?s)^UPDATE\s+posts\s+SET\s+title\s*=\s*\$2,\s*content\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+updated_at\s*$`
	deleteQ = `^DELETE FROM posts WHERE id = \$1$`
	attachQ = `^UPDATE posts SET attachment_key = \$2, updated_at = now\(\) WHERE id = \$1$`
)

var postCols = []string{"id", "title", "content", "author_id", "username", "attachment_key", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertQ).
		WithArgs("Hello", "World", authorID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(postID, ts, ts))

	got, err := repo.Create(context.Background(), &models.Post{Title: "Hello", Content: "World", AuthorID: authorID})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != postID || !got.CreatedAt.Equal(ts) {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Post{Title: "t", Content: "c", AuthorID: authorID})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now()
	mock.ExpectQuery(selectQ+`WHERE\s+p\.id\s*=\s*\$1`).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows(postCols).AddRow(postID, "t", "c", authorID, "alice", "", ts, ts))

	got, err := repo.FindByID(context.Background(), postID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.AuthorName != "alice" || got.AttachmentKey != "" {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs(postID).WillReturnError(sql.ErrNoRows)

	if _, err := repo.FindByID(context.Background(), postID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), "42"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want not found for non-uuid, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFindAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now()
	mock.ExpectQuery(selectQ + `ORDER\s+BY\s+p\.created_at\s+DESC`).
		WillReturnRows(sqlmock.NewRows(postCols).
			AddRow(postID, "t1", "c1", authorID, "alice", "posts/2024/03/01/x", ts, ts).
			AddRow("p2", "t2", "c2", authorID, "alice", "", ts, ts))

	got, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(got) != 2 || got[0].AttachmentKey != "posts/2024/03/01/x" {
		t.Fatalf("unexpected posts: %+v", got)
	}
}

func TestFindAll_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WillReturnRows(sqlmock.NewRows(postCols))

	got, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestFindByAuthor(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now()
	mock.ExpectQuery(selectQ+`WHERE\s+p\.author_id\s*=\s*\$1`).
		WithArgs(authorID).
		WillReturnRows(sqlmock.NewRows(postCols).AddRow(postID, "t", "c", authorID, "alice", "", ts, ts))

	got, err := repo.FindByAuthor(context.Background(), authorID)
	if err != nil || len(got) != 1 {
		t.Fatalf("FindByAuthor = %v, %v", got, err)
	}
}

func TestFindAll_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WillReturnError(errors.New("db err"))

	if _, err := repo.FindAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Now()
	mock.ExpectQuery(updateQ).
		WithArgs(postID, "new", "body").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(ts))
	mock.ExpectQuery(updateQ).
		WithArgs(postID, "new", "body").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Update(context.Background(), &models.Post{ID: postID, Title: "new", Content: "body"})
	if err != nil || !got.UpdatedAt.Equal(ts) {
		t.Fatalf("Update = %+v, %v", got, err)
	}

	_, err = repo.Update(context.Background(), &models.Post{ID: postID, Title: "new", Content: "body"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs(postID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQ).WithArgs(postID).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteQ).WithArgs(postID).WillReturnError(errors.New("db err"))

	if err := repo.Delete(context.Background(), postID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), postID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if err := repo.Delete(context.Background(), postID); err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want db error, got %v", err)
	}
}

func TestSetAttachment(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(attachQ).WithArgs(postID, "posts/k").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetAttachment(context.Background(), postID, "posts/k"); err != nil {
		t.Fatalf("SetAttachment error: %v", err)
	}
	if err := repo.SetAttachment(context.Background(), "bad", "posts/k"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}
