package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
	"github.com/oksasatya/go-postboard/internal/domain/repository"
)

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, user_id, post_title, post_body, post_description, created_at, updated_at`

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO posts (user_id, post_title, post_body, post_description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Title, p.Body, p.Description)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		// The owner was deleted underneath us.
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, userID, id int64) (*entity.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]entity.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanPosts(rows)
}

// Search matches the query as a case-insensitive substring of title, body or
// description.
func (r *PostRepository) Search(ctx context.Context, userID int64, query string, limit int) ([]entity.Post, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE user_id = $1
		  AND (post_title ILIKE $2 OR post_body ILIKE $2 OR post_description ILIKE $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, userID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanPosts(rows)
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRowContext(ctx, `
		UPDATE posts
		SET post_title = $1, post_body = $2, post_description = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at
	`, p.Title, p.Body, p.Description, p.ID, p.UserID)

	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func scanPosts(rows *sql.Rows) ([]entity.Post, error) {
	defer func() { _ = rows.Close() }()

	out := make([]entity.Post, 0)
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

var _ repository.PostRepository = (*PostRepository)(nil)
