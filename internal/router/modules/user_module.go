package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-postboard/internal/interface/http"
)

// UserModule serves profile changes of the authenticated user.
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/v1/users", m.Auth)
	{
		auth.PUT("/me", m.Handler.UpdateProfile)
		auth.DELETE("/me", m.Handler.DeleteAccount)
	}
}
