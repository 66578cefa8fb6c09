package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-postboard/internal/application"
	"github.com/oksasatya/go-postboard/internal/domain/entity"
	"github.com/oksasatya/go-postboard/pkg/helpers"
	"github.com/oksasatya/go-postboard/pkg/response"
)

const (
	CtxUserKey   = "user"
	CtxUserIDKey = "userID"
)

// bearerToken reads the Authorization header and falls back to the
// access_token cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if tok, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return tok
	}
	return ""
}

// Auth resolves the bearer token to the current user and stores it in the
// Gin context under CtxUserKey and CtxUserIDKey.
func Auth(resolver *application.SessionResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "unauthorized", nil)
			return
		}

		u, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrUnauthorized) {
				response.Abort(c, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("resolve session failed")
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}

		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
