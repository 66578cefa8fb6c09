package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("jwt secret is empty")
)

// JWTManager signs and verifies bearer tokens with HS256.
// The secret is fixed at construction and never changes afterwards.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager refuses to build a manager without a secret. A zero ttl
// issues tokens without an exp claim.
func NewJWTManager(secret string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Claims carries enough of the identity to look it up again.
type Claims struct {
	UserID      int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	jwt.RegisteredClaims
}

// Stamp fills the registered claims for a fresh token: issued-at, a unique
// token id and, when configured, the expiry.
func (m *JWTManager) Stamp(c *Claims, tokenID string) {
	now := m.now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ID = tokenID
	if m.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}
}

// Encode signs claims as is. The same claims always give the same token.
func (m *JWTManager) Encode(c *Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(m.secret)
}

// Decode verifies signature, algorithm and time-based claims. Every failure
// is reported as ErrInvalidToken wrapping the parser's reason.
func (m *JWTManager) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
