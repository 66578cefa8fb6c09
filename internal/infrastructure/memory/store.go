// Package memory is an in-process store used for local runs (STORE_DRIVER=memory)
// and tests. It enforces the same email uniqueness and ownership rules as the
// postgres store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
	"github.com/oksasatya/go-postboard/internal/domain/repository"
)

type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	nextU  int64
	nextP  int64
	users  map[int64]entity.User
	emails map[string]int64
	posts  map[int64]entity.Post
}

func NewStore() *Store {
	return &Store{
		now:    time.Now,
		users:  make(map[int64]entity.User),
		emails: make(map[string]int64),
		posts:  make(map[int64]entity.Post),
	}
}

func (s *Store) Session(ctx context.Context, fn func(ctx context.Context, sess repository.Session) error) error {
	return fn(ctx, s)
}

func (s *Store) Users() repository.UserRepository { return (*users)(s) }
func (s *Store) Posts() repository.PostRepository { return (*posts)(s) }

type users Store

func (u *users) Create(_ context.Context, user *entity.User) error {
	s := (*Store)(u)
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := s.emails[key]; ok {
		return repository.ErrDuplicateEmail
	}
	s.nextU++
	user.ID = s.nextU
	user.CreatedAt = s.now().UTC()
	s.users[user.ID] = *user
	s.emails[key] = user.ID
	return nil
}

func (u *users) GetByID(_ context.Context, id int64) (*entity.User, error) {
	s := (*Store)(u)
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (u *users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s := (*Store)(u)
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (u *users) UpdateProfile(_ context.Context, user *entity.User) error {
	s := (*Store)(u)
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name = user.Name
	cur.PhoneNumber = user.PhoneNumber
	s.users[user.ID] = cur
	return nil
}

func (u *users) Delete(_ context.Context, id int64) error {
	s := (*Store)(u)
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	delete(s.emails, strings.ToLower(user.Email))
	for pid, p := range s.posts {
		if p.UserID == id {
			delete(s.posts, pid)
		}
	}
	return nil
}

type posts Store

func (r *posts) Create(_ context.Context, p *entity.Post) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.UserID]; !ok {
		return repository.ErrNotFound
	}
	s.nextP++
	now := s.now().UTC()
	p.ID = s.nextP
	p.CreatedAt = now
	p.UpdatedAt = now
	s.posts[p.ID] = *p
	return nil
}

func (r *posts) GetByID(_ context.Context, userID, id int64) (*entity.Post, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok || p.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *posts) ListByUser(_ context.Context, userID int64, limit, offset int) ([]entity.Post, error) {
	return r.filter(userID, limit, offset, func(entity.Post) bool { return true }), nil
}

func (r *posts) Search(_ context.Context, userID int64, query string, limit int) ([]entity.Post, error) {
	q := strings.ToLower(query)
	return r.filter(userID, limit, 0, func(p entity.Post) bool {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Body), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	}), nil
}

// filter returns the user's matching posts newest first.
func (r *posts) filter(userID int64, limit, offset int, match func(entity.Post) bool) []entity.Post {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Post, 0)
	for _, p := range s.posts {
		if p.UserID == userID && match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if offset >= len(out) {
		return []entity.Post{}
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (r *posts) Update(_ context.Context, p *entity.Post) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.posts[p.ID]
	if !ok || cur.UserID != p.UserID {
		return repository.ErrNotFound
	}
	cur.Title = p.Title
	cur.Body = p.Body
	cur.Description = p.Description
	cur.UpdatedAt = s.now().UTC()
	s.posts[p.ID] = cur
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *posts) Delete(_ context.Context, userID, id int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

var (
	_ repository.Store   = (*Store)(nil)
	_ repository.Session = (*Store)(nil)
)
