package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	repo "github.com/oksasatya/go-postboard/internal/domain/repository"
	"github.com/oksasatya/go-postboard/internal/infrastructure/memory"
	"github.com/oksasatya/go-postboard/pkg/helpers"
)

// countingStore records how many sessions were acquired and released.
type countingStore struct {
	inner    repo.Store
	mu       sync.Mutex
	acquired int
	released int
}

func (c *countingStore) Session(ctx context.Context, fn func(ctx context.Context, s repo.Session) error) error {
	c.mu.Lock()
	c.acquired++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.released++
		c.mu.Unlock()
	}()
	return c.inner.Session(ctx, fn)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(ctx context.Context, body any) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

type fixture struct {
	store   *countingStore
	auth    *AuthService
	session *SessionResolver
	users   *UserService
	posts   *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &countingStore{inner: memory.NewStore()}
	logger := helpers.NewNopLogger()
	jwt, err := helpers.NewJWTManager("test-secret", 0)
	require.NoError(t, err)

	return &fixture{
		store:   store,
		auth:    NewAuthService(store, helpers.NewBcryptHasher(bcrypt.MinCost), logger, nil, "postboard"),
		session: NewSessionResolver(store, jwt, logger),
		users:   NewUserService(store, nil, logger),
		posts:   NewPostService(store, nil, nil, logger),
	}
}
