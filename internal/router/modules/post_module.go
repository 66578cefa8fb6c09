package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-postboard/internal/interface/http"
)

// PostModule serves the caller's posts. Every route requires a token.
type PostModule struct {
	Handler *handlers.PostHandler
	Auth    gin.HandlerFunc
}

func NewPostModule(h *handlers.PostHandler, auth gin.HandlerFunc) *PostModule {
	return &PostModule{Handler: h, Auth: auth}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	posts := rg.Group("/v1/posts", m.Auth)
	{
		posts.POST("", m.Handler.Create)
		posts.GET("", m.Handler.List)
		posts.GET("/search", m.Handler.Search)
		posts.GET("/:id", m.Handler.Get)
		posts.PUT("/:id", m.Handler.Update)
		posts.DELETE("/:id", m.Handler.Delete)
	}
}
