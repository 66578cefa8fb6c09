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

// UserService manages the profile of an already resolved user.
type UserService struct {
	Store  repo.Store
	Index  PostIndex // optional
	Logger *logrus.Logger
}

func NewUserService(store repo.Store, index PostIndex, logger *logrus.Logger) *UserService {
	return &UserService{Store: store, Index: index, Logger: logger}
}

// UpdateProfileInput leaves empty fields unchanged.
type UpdateProfileInput struct {
	Name        string
	PhoneNumber string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*entity.User, error) {
	var u *entity.User
	err := s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		found, err := sess.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			found.Name = name
		}
		if phone := strings.TrimSpace(in.PhoneNumber); phone != "" {
			found.PhoneNumber = phone
		}
		if err := sess.Users().UpdateProfile(ctx, found); err != nil {
			return err
		}
		u = found
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// DeleteAccount removes the user and, through the store, their posts.
// Tokens issued to the user stop resolving afterwards.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	err := s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		return sess.Users().Delete(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.RemoveUser(ctx, userID); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("search index purge failed")
		}
	}
	s.Logger.WithField("user_id", userID).Info("user deleted")
	return nil
}
