package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
	repo "github.com/oksasatya/go-postboard/internal/domain/repository"
	"github.com/oksasatya/go-postboard/pkg/helpers"
	"github.com/oksasatya/go-postboard/pkg/mailer"
)

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "a@example.com", Password: "secret123", Name: "A", PhoneNumber: "+1000"},
		{Email: "  Bob@Example.org ", Password: "another-pass", Name: "Bob", PhoneNumber: ""},
		{Email: "c.d+tag@example.co.uk", Password: strings.Repeat("x", 72), Name: "", PhoneNumber: "555"},
	}
	for _, in := range cases {
		u, err := f.auth.Register(ctx, in)
		require.NoError(t, err, in.Email)
		assert.NotZero(t, u.ID)
		assert.Equal(t, strings.ToLower(strings.TrimSpace(in.Email)), u.Email)
		assert.NotEqual(t, in.Password, u.PasswordHash)
		assert.False(t, u.CreatedAt.IsZero())

		got, err := f.auth.Login(ctx, in.Email, in.Password)
		require.NoError(t, err, in.Email)
		assert.Equal(t, u.ID, got.ID)
	}
}

func TestRegister_DuplicateEmailIgnoresCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "secret123"})
	require.NoError(t, err)

	for _, email := range []string{"dup@example.com", "DUP@example.com", " Dup@Example.COM "} {
		_, err := f.auth.Register(ctx, RegisterInput{Email: email, Password: "secret123"})
		assert.ErrorIs(t, err, ErrDuplicateEmail, email)
	}
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	f := newFixture(t)
	const n = 16

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, dups int
		others   []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.auth.Register(context.Background(), RegisterInput{Email: "race@example.com", Password: "secret123"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicateEmail):
				dups++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dups)
	assert.Empty(t, others)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, email := range []string{"", "plain", "a@", "@example.com"} {
		_, err := f.auth.Register(ctx, RegisterInput{Email: email, Password: "secret123"})
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}

	for _, pwd := range []string{"", "short", strings.Repeat("x", 73)} {
		_, err := f.auth.Register(ctx, RegisterInput{Email: "v@example.com", Password: pwd})
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, wrongPwd := f.auth.Login(ctx, "a@example.com", "secret124")
	_, noUser := f.auth.Login(ctx, "nobody@example.com", "secret123")
	_, badEmail := f.auth.Login(ctx, "not-an-email", "secret123")

	for _, err := range []error{wrongPwd, noUser, badEmail} {
		require.ErrorIs(t, err, ErrAuthenticationFailed)
		assert.Equal(t, wrongPwd.Error(), err.Error())
	}
}

func TestSessionsAreAlwaysReleased(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _ = f.auth.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret123"})
	_, _ = f.auth.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret123"})
	_, _ = f.auth.Login(ctx, "a@example.com", "wrong-password")
	_, _ = f.auth.Login(ctx, "missing@example.com", "secret123")

	assert.Equal(t, 4, f.store.acquired)
	assert.Equal(t, f.store.acquired, f.store.released)
}

func TestRegister_PublishesWelcomeEmail(t *testing.T) {
	f := newFixture(t)
	pub := &mockPublisher{}
	pub.On("PublishJSON", mock.Anything, mock.MatchedBy(func(job mailer.EmailJob) bool {
		return job.To == "w@example.com" && job.Template == "welcome" && job.Data["Name"] == "W"
	})).Return(nil).Once()
	f.auth.Publisher = pub

	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "w@example.com", Password: "secret123", Name: "W"})
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestRegister_PublishFailureDoesNotFailRegistration(t *testing.T) {
	f := newFixture(t)
	pub := &mockPublisher{}
	pub.On("PublishJSON", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	f.auth.Publisher = pub

	u, err := f.auth.Register(context.Background(), RegisterInput{Email: "w@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
}

// constraintStore reports every email as free but rejects the insert, which
// is what the loser of a registration race sees.
type constraintStore struct {
	open    atomic.Int32
	creates atomic.Int32
}

func (s *constraintStore) Session(ctx context.Context, fn func(ctx context.Context, sess repo.Session) error) error {
	s.open.Add(1)
	defer s.open.Add(-1)
	return fn(ctx, s)
}

func (s *constraintStore) Users() repo.UserRepository { return constraintUsers{s} }
func (s *constraintStore) Posts() repo.PostRepository { return nil }

type constraintUsers struct {
	*constraintStore
}

func (constraintUsers) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (u constraintUsers) Create(_ context.Context, usr *entity.User) error {
	u.creates.Add(1)
	if usr.PasswordHash == "" {
		return errors.New("missing hash")
	}
	return repo.ErrDuplicateEmail
}

func (constraintUsers) GetByID(context.Context, int64) (*entity.User, error) {
	return nil, repo.ErrNotFound
}
func (constraintUsers) UpdateProfile(context.Context, *entity.User) error { return nil }
func (constraintUsers) Delete(context.Context, int64) error               { return nil }

// sessionAwareHasher fails when asked to hash while a session is open.
type sessionAwareHasher struct {
	store *constraintStore
	inner PasswordHasher
}

func (h sessionAwareHasher) Hash(plain string) (string, error) {
	if h.store.open.Load() != 0 {
		return "", errors.New("hashing inside a session")
	}
	return h.inner.Hash(plain)
}

func (h sessionAwareHasher) Verify(plain, hash string) bool { return h.inner.Verify(plain, hash) }

func TestRegister_UniqueConstraintRejectsDuplicate(t *testing.T) {
	store := &constraintStore{}
	hasher := sessionAwareHasher{store: store, inner: helpers.NewBcryptHasher(bcrypt.MinCost)}
	auth := NewAuthService(store, hasher, helpers.NewNopLogger(), nil, "postboard")

	u, err := auth.Register(context.Background(), RegisterInput{Email: "late@example.com", Password: "secret123"})
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, int32(1), store.creates.Load())
	assert.Equal(t, int32(0), store.open.Load())
}
