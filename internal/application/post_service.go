package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
	repo "github.com/oksasatya/go-postboard/internal/domain/repository"
)

const (
	defaultListLimit   = 20
	maxListLimit       = 100
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	maxTitleLen        = 200
)

// PostCache is a read-through cache of single posts. Implementations swallow
// their own failures; a failed Get is a miss.
type PostCache interface {
	Get(ctx context.Context, id int64) (*entity.Post, bool)
	Set(ctx context.Context, p *entity.Post)
	Invalidate(ctx context.Context, id int64)
}

// PostIndex is a full-text index over posts.
type PostIndex interface {
	Index(ctx context.Context, p *entity.Post) error
	Remove(ctx context.Context, id int64) error
	RemoveUser(ctx context.Context, userID int64) error
	Search(ctx context.Context, userID int64, query string, size int) ([]entity.Post, error)
}

type PostService struct {
	Store  repo.Store
	Cache  PostCache // optional
	Index  PostIndex // optional
	Logger *logrus.Logger
}

func NewPostService(store repo.Store, cache PostCache, index PostIndex, logger *logrus.Logger) *PostService {
	return &PostService{Store: store, Cache: cache, Index: index, Logger: logger}
}

type PostInput struct {
	Title       string
	Body        string
	Description string
}

// PostPatch leaves nil fields unchanged.
type PostPatch struct {
	Title       *string
	Body        *string
	Description *string
}

func validateTitle(title string) error {
	switch {
	case title == "":
		return fmt.Errorf("%w: post title is required", ErrInvalidInput)
	case len(title) > maxTitleLen:
		return fmt.Errorf("%w: post title must be at most %d characters", ErrInvalidInput, maxTitleLen)
	}
	return nil
}

func (s *PostService) Create(ctx context.Context, userID int64, in PostInput) (*entity.Post, error) {
	p := &entity.Post{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Body:        in.Body,
		Description: in.Description,
	}
	if err := validateTitle(p.Title); err != nil {
		return nil, err
	}

	err := s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		return sess.Posts().Create(ctx, p)
	})
	if err != nil {
		return nil, s.storeErr("create post", err)
	}

	metricPostsCreated.Add(1)
	s.index(ctx, p)
	return p, nil
}

// Get returns the caller's post. Posts of other users look absent.
func (s *PostService) Get(ctx context.Context, userID, id int64) (*entity.Post, error) {
	if s.Cache != nil {
		if p, ok := s.Cache.Get(ctx, id); ok && p.UserID == userID {
			return p, nil
		}
	}

	var p *entity.Post
	err := s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		found, err := sess.Posts().GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		p = found
		return nil
	})
	if err != nil {
		return nil, s.storeErr("get post", err)
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, p)
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context, userID int64, limit, offset int) ([]entity.Post, error) {
	limit = clamp(limit, defaultListLimit, maxListLimit)
	if offset < 0 {
		offset = 0
	}

	var out []entity.Post
	err := s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		posts, err := sess.Posts().ListByUser(ctx, userID, limit, offset)
		out = posts
		return err
	})
	if err != nil {
		return nil, s.storeErr("list posts", err)
	}
	return out, nil
}

// Search queries the index when one is configured and falls back to the
// store when there is none or it fails.
func (s *PostService) Search(ctx context.Context, userID int64, query string, size int) ([]entity.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	size = clamp(size, defaultSearchLimit, maxSearchLimit)

	if s.Index != nil {
		posts, err := s.Index.Search(ctx, userID, query, size)
		if err == nil {
			return posts, nil
		}
		s.Logger.WithError(err).WithField("user_id", userID).Warn("search index query failed, using store")
	}

	var out []entity.Post
	err := s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		posts, err := sess.Posts().Search(ctx, userID, query, size)
		out = posts
		return err
	})
	if err != nil {
		return nil, s.storeErr("search posts", err)
	}
	return out, nil
}

func (s *PostService) Update(ctx context.Context, userID, id int64, patch PostPatch) (*entity.Post, error) {
	var p *entity.Post
	err := s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		found, err := sess.Posts().GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if patch.Title != nil {
			found.Title = strings.TrimSpace(*patch.Title)
			if err := validateTitle(found.Title); err != nil {
				return err
			}
		}
		if patch.Body != nil {
			found.Body = *patch.Body
		}
		if patch.Description != nil {
			found.Description = *patch.Description
		}
		if err := sess.Posts().Update(ctx, found); err != nil {
			return err
		}
		p = found
		return nil
	})
	if err != nil {
		return nil, s.storeErr("update post", err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, id)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, userID, id int64) error {
	err := s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		return sess.Posts().Delete(ctx, userID, id)
	})
	if err != nil {
		return s.storeErr("delete post", err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, id)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("search index remove failed")
		}
	}
	return nil
}

func (s *PostService) index(ctx context.Context, p *entity.Post) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("search index update failed")
	}
}

// storeErr maps repository errors onto service errors. Validation errors
// raised inside a session pass through.
func (s *PostService) storeErr(op string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrInvalidInput):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func clamp(v, def, upper int) int {
	if v <= 0 {
		return def
	}
	if v > upper {
		return upper
	}
	return v
}
