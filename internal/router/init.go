package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-postboard/internal/application"
	"github.com/oksasatya/go-postboard/internal/container"
	"github.com/oksasatya/go-postboard/internal/infrastructure/cache"
	"github.com/oksasatya/go-postboard/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-postboard/internal/interface/http"
	"github.com/oksasatya/go-postboard/internal/interface/middleware"
	"github.com/oksasatya/go-postboard/internal/router/modules"
	"github.com/oksasatya/go-postboard/pkg/helpers"
)

// Services groups the application services behind the HTTP modules.
type Services struct {
	Auth     *application.AuthService
	Sessions *application.SessionResolver
	Users    *application.UserService
	Posts    *application.PostService
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()

	var publisher application.JobPublisher
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		publisher = pub
	}
	var postCache application.PostCache
	if rdb := container.GetRedis(); rdb != nil {
		postCache = cache.NewPostCache(rdb, cfg.PostCacheTTL, logger)
	}
	var postIndex application.PostIndex
	if es := container.GetES(); es != nil {
		postIndex = search.NewPostIndex(es, cfg.ESPostsIndex, logger)
	}

	return Services{
		Auth:     application.NewAuthService(store, container.GetHasher(), logger, publisher, cfg.AppName),
		Sessions: application.NewSessionResolver(store, container.GetJWT(), logger),
		Users:    application.NewUserService(store, postIndex, logger),
		Posts:    application.NewPostService(store, postCache, postIndex, logger),
	}
}

// InitModules builds services from the container and registers every module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry) {
	Mount(r, buildServices())
}

// Mount registers the HTTP modules for svc on r.
func Mount(r *Registry, svc Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	auth := middleware.Auth(svc.Sessions, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, svc.Sessions, logger, cookies), auth))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger, cookies), auth))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(svc.Posts, logger), auth))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

// Health registers GET /healthz outside the /api group.
func Health(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
