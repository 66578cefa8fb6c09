package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
	repo "github.com/oksasatya/go-postboard/internal/domain/repository"
	"github.com/oksasatya/go-postboard/pkg/helpers"
)

// SessionResolver turns users into bearer tokens and tokens back into the
// current persisted user.
type SessionResolver struct {
	Store  repo.Store
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewSessionResolver(store repo.Store, jwt *helpers.JWTManager, logger *logrus.Logger) *SessionResolver {
	return &SessionResolver{Store: store, JWT: jwt, Logger: logger}
}

// IssueToken signs id, email, name and phone number of u. The expiry is zero
// when tokens do not expire.
func (r *SessionResolver) IssueToken(u *entity.User) (string, time.Time, error) {
	claims := &helpers.Claims{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
	}
	r.JWT.Stamp(claims, uuid.NewString())

	tok, err := r.JWT.Encode(claims)
	if err != nil {
		r.Logger.WithError(err).WithField("user_id", u.ID).Error("sign token failed")
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return tok, exp, nil
}

// Resolve verifies token and loads its user from the store. Tokens of users
// deleted since issuance are rejected.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (*entity.User, error) {
	claims, err := r.JWT.Decode(token)
	if err != nil {
		metricTokensRejected.Add(1)
		r.Logger.WithError(err).Debug("token rejected")
		return nil, ErrUnauthorized
	}

	var u *entity.User
	err = r.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		found, err := sess.Users().GetByID(ctx, claims.UserID)
		if err != nil {
			return err
		}
		u = found
		return nil
	})
	switch {
	case errors.Is(err, repo.ErrNotFound):
		metricTokensRejected.Add(1)
		return nil, ErrUnauthorized
	case err != nil:
		return nil, fmt.Errorf("load user: %w", err)
	}

	metricTokensResolved.Add(1)
	return u, nil
}
