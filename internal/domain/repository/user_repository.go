package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserRepository defines the interface for user-related database operations.
// Create must report ErrDuplicateEmail when the store's uniqueness
// constraint on email rejects the row.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
}
