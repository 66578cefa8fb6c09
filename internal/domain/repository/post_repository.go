package repository

import (
	"context"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
)

// PostRepository defines post persistence. Lookups that take a userID only
// see rows owned by that user and report ErrNotFound otherwise.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, userID, id int64) (*entity.Post, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]entity.Post, error)
	Search(ctx context.Context, userID int64, query string, limit int) ([]entity.Post, error)
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, userID, id int64) error
}
