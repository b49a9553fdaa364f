package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pindrop/core/internal/middleware"
	"github.com/pindrop/core/internal/modules/blog"
	"github.com/pindrop/core/internal/modules/chat"
	"github.com/pindrop/core/internal/modules/comment"
	"github.com/pindrop/core/internal/modules/like"
	"github.com/pindrop/core/internal/modules/market"
	"github.com/pindrop/core/internal/modules/pin"
	"github.com/pindrop/core/internal/modules/profile"
	"github.com/pindrop/core/internal/modules/storage"
	"github.com/pindrop/core/internal/modules/user"
	"github.com/pindrop/core/internal/pkg/events"
	pkgredis "github.com/pindrop/core/internal/pkg/redis"
	"github.com/pindrop/core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Shared infrastructure services
	storageSvc := storage.New(a.cfg.S3, a.logger)
	publisher := events.New(a.cfg.AMQPURL, a.logger)

	if !storageSvc.Enabled() {
		a.logger.Warn("object storage not configured, uploads run degraded")
	}
	if !publisher.Enabled() {
		a.logger.Info("amqp not configured, domain events disabled")
	}

	// socket.io lives outside the versioned prefix, like any other
	// transport endpoint.
	root := r.Group("")
	chat.RegisterSocket(root, a.hub)

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:     15 * time.Second,
		Disable: a.cfg.IsDev(),
		SkipPaths: []string{
			apiPrefix + "/user",
			apiPrefix + "/socket.io",
		},
	}))

	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	user.NewHandler(user.NewService(db)).RegisterRoutes(api, authMW)
	profile.NewHandler(profile.NewService(db), storageSvc, a.cfg.Buckets).RegisterRoutes(api, authMW)

	pin.NewHandler(pin.NewService(db), storageSvc, publisher, a.cfg.Buckets).RegisterRoutes(api, authMW)
	like.NewHandler(like.NewService(db)).RegisterRoutes(api, authMW)
	comment.NewHandler(comment.NewService(db)).RegisterRoutes(api, authMW)
	chat.NewHandler(chat.NewService(db), a.hub).RegisterRoutes(api, authMW)

	market.NewHandler(market.NewService(db), storageSvc, publisher, a.cfg.Buckets).RegisterRoutes(api, authMW)
	blog.NewHandler(blog.NewService(db), publisher).RegisterRoutes(api, authMW)
}
