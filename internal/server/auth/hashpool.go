package auth

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"golang.org/x/sync/semaphore"
)

// HashPool bounds how many password hash operations run at once. Callers
// wait for a slot only as long as their context allows, so a burst of
// logins cannot wedge unrelated requests.
type HashPool struct {
	hasher PasswordHasher
	sem    *semaphore.Weighted
	dummy  string
}

// NewHashPool precomputes a throwaway hash used by VerifyDummy.
func NewHashPool(hasher PasswordHasher, workers int) (*HashPool, error) {
	workers = max(workers, 1)

	secret, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	dummy, err := hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &HashPool{
		hasher: hasher,
		sem:    semaphore.NewWeighted(int64(workers)),
		dummy:  dummy,
	}, nil
}

func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.sem.Release(1)

	return p.hasher.Hash(password)
}

// Verify reports whether password matches hash. The error is non-nil only
// when ctx ends before a worker slot frees up.
func (p *HashPool) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer p.sem.Release(1)

	return p.hasher.Verify(password, hash), nil
}

// VerifyDummy spends the same work as a real Verify against a hash nobody
// can match. Login calls it for unknown usernames.
func (p *HashPool) VerifyDummy(ctx context.Context, password string) error {
	_, err := p.Verify(ctx, password, p.dummy)
	return err
}
