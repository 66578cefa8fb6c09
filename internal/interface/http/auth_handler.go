package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-postboard/internal/application"
	"github.com/oksasatya/go-postboard/internal/interface/middleware"
	"github.com/oksasatya/go-postboard/pkg/helpers"
	"github.com/oksasatya/go-postboard/pkg/response"
	"github.com/oksasatya/go-postboard/pkg/validation"
)

const tokenType = "bearer"

type AuthHandler struct {
	Auth     *application.AuthService
	Sessions *application.SessionResolver
	Logger   *logrus.Logger
	Cookies  *helpers.Manager
}

func NewAuthHandler(auth *application.AuthService, sessions *application.SessionResolver, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Auth: auth, Sessions: sessions, Logger: logger, Cookies: cookies}
}

// Register POST /api/v1/users
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	tok, exp, err := h.Sessions.IssueToken(u)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetToken(c, tok, exp)
	response.Success(c, http.StatusCreated, tokenResponse{AccessToken: tok, TokenType: tokenType}, "user registered", nil)
}

// Login POST /api/v1/token
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	tok, exp, err := h.Sessions.IssueToken(u)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetToken(c, tok, exp)

	var meta any
	if !exp.IsZero() {
		meta = map[string]any{"expires_at": exp}
	}
	response.Success(c, http.StatusOK, tokenResponse{AccessToken: tok, TokenType: tokenType}, "login successful", meta)
}

// Logout POST /api/v1/logout. Tokens are stateless; only the cookie goes.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

// Me GET /api/v1/users/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		writeError(c, h.Logger, application.ErrUnauthorized)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile", nil)
}
