package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oksasatya/go-postboard/internal/domain/repository"
)

// Store implements repository.Store on top of database/sql.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type session struct {
	users *UserRepository
	posts *PostRepository
}

func (s *session) Users() repository.UserRepository { return s.users }
func (s *session) Posts() repository.PostRepository { return s.posts }

// Session pins one pooled connection for fn. The connection goes back to the
// pool when fn returns, fails or panics.
func (s *Store) Session(ctx context.Context, fn func(ctx context.Context, sess repository.Session) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	return fn(ctx, &session{
		users: NewUserRepository(conn),
		posts: NewPostRepository(conn),
	})
}

var _ repository.Store = (*Store)(nil)
