package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	rm    *repomanager.MemoryRepositoryManager
	codec *auth.TokenCodec
	users *UserService
	posts *PostService
	store *fakePresigner
	clock *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	rm := repomanager.NewMemoryRepositoryManager()

	pool, err := auth.NewHashPool(auth.NewBcryptHasher(bcrypt.MinCost), 4)
	require.NoError(t, err)

	codec, err := auth.NewTokenCodec([]byte("test-secret"), 15*time.Minute)
	require.NoError(t, err)

	clock := testNow
	now := func() time.Time { return clock }
	store := &fakePresigner{}

	return &fixture{
		rm:    rm,
		codec: codec,
		users: NewUserService(rm, pool, codec, now),
		posts: NewPostService(rm, store, now),
		store: store,
		clock: &clock,
	}
}

// register creates a user and returns the principal their login resolves to.
func (f *fixture) register(t *testing.T, username string) auth.Principal {
	t.Helper()
	ctx := context.Background()

	_, err := f.users.Register(ctx, RegisterInput{Username: username, Email: username + "@x.com", Password: "pw-" + username})
	require.NoError(t, err)
	return f.login(t, username, "pw-"+username)
}

func (f *fixture) login(t *testing.T, username, password string) auth.Principal {
	t.Helper()

	res, err := f.users.Login(context.Background(), username, password)
	require.NoError(t, err)

	authn := auth.NewAuthenticator(f.codec, f.rm.Users(), func() time.Time { return *f.clock })
	p, err := authn.Resolve(context.Background(), "Bearer "+res.Token.Value)
	require.NoError(t, err)
	return p
}

type fakePresigner struct {
	mu   sync.Mutex
	puts []string
	gets []string
	fail bool
}

func (f *fakePresigner) PresignPut(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("presign failed")
	}
	f.puts = append(f.puts, key)
	return "https://s3.test/put/" + key, nil
}

func (f *fakePresigner) PresignGet(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("presign failed")
	}
	f.gets = append(f.gets, key)
	return "https://s3.test/get/" + key, nil
}
