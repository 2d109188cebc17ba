package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
)

// Repositories vends the repositories bound to one handle, either the pool
// or an open transaction.
type Repositories interface {
	Users() users.Repository
	Posts() posts.Repository
}

// RepositoryManager owns the storage backend. Repositories obtained from
// the manager itself run outside any transaction; WithTx hands fn a set
// bound to a single transaction that commits when fn returns nil.
type RepositoryManager interface {
	Repositories
	RunMigrations(ctx context.Context) error
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
