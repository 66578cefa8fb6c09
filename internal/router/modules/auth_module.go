package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-postboard/internal/interface/http"
)

// AuthModule serves registration, token issuance and the caller's identity.
// Public: POST /v1/users, POST /v1/token
// Protected: POST /v1/logout, GET /v1/users/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, auth gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	v1 := rg.Group("/v1")
	v1.POST("/users", m.Handler.Register)
	v1.POST("/token", m.Handler.Login)

	auth := v1.Group("/", m.Auth)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/users/me", m.Handler.Me)
	}
}
