package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
	repo "github.com/oksasatya/go-postboard/internal/domain/repository"
	"github.com/oksasatya/go-postboard/pkg/mailer"
	tpl "github.com/oksasatya/go-postboard/pkg/mailer/templates"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit
)

// JobPublisher enqueues background jobs such as emails.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// AuthService registers users and checks their credentials.
type AuthService struct {
	Store     repo.Store
	Hasher    PasswordHasher
	Logger    *logrus.Logger
	Publisher JobPublisher // optional
	AppName   string

	validate  *validator.Validate
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(store repo.Store, hasher PasswordHasher, logger *logrus.Logger, pub JobPublisher, appName string) *AuthService {
	return &AuthService{
		Store:     store,
		Hasher:    hasher,
		Logger:    logger,
		Publisher: pub,
		AppName:   appName,
		validate:  validator.New(),
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	PhoneNumber string
}

// NormalizeEmail trims and lower-cases email and checks its syntax.
func (s *AuthService) NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email,max=254"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Register creates a user. The store's unique constraint decides concurrent
// registrations of one email; the existence check only answers early.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email, err := s.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if n := len(in.Password); n < minPasswordLen || n > maxPasswordLen {
		return nil, ErrInvalidPassword
	}

	// Hash outside the session so no connection idles through bcrypt.
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
	}
	err = s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		if _, err := sess.Users().GetByEmail(ctx, email); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("lookup email: %w", err)
		}

		if err := sess.Users().Create(ctx, u); err != nil {
			if errors.Is(err, repo.ErrDuplicateEmail) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metricRegistrations.Add(1)
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	s.enqueueWelcome(ctx, u)
	return u, nil
}

// Login returns the user owning email when password matches. Unknown email
// and wrong password give the same ErrAuthenticationFailed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	email, err := s.NormalizeEmail(email)
	if err != nil {
		s.burnVerify(password)
		metricLoginsFailed.Add(1)
		return nil, ErrAuthenticationFailed
	}

	var u *entity.User
	err = s.Store.Session(ctx, func(ctx context.Context, sess repo.Session) error {
		found, err := sess.Users().GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		u = found
		return nil
	})
	switch {
	case errors.Is(err, repo.ErrNotFound):
		s.burnVerify(password)
		metricLoginsFailed.Add(1)
		return nil, ErrAuthenticationFailed
	case err != nil:
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if !s.Hasher.Verify(password, u.PasswordHash) {
		metricLoginsFailed.Add(1)
		return nil, ErrAuthenticationFailed
	}
	metricLogins.Add(1)
	return u, nil
}

// burnVerify spends the same bcrypt work as a real check so response time
// does not reveal whether an account exists.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("postboard-dummy-password")
	})
	_ = s.Hasher.Verify(password, s.dummyHash)
}

func (s *AuthService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Publisher == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.Welcome,
		Data:     tpl.NewWelcomeData(s.AppName, u.Name, u.Email, tpl.WithTime(time.Now())),
	}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish welcome email")
	}
}
