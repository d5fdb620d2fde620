package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/d60-Lab/relation-models/config"
	_ "github.com/d60-Lab/relation-models/docs"
	"github.com/d60-Lab/relation-models/internal/api/handler"
	"github.com/d60-Lab/relation-models/internal/api/middleware"
	"github.com/d60-Lab/relation-models/pkg/logger"
	"github.com/d60-Lab/relation-models/pkg/validation"
)

// NewRouter 组装路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if err := validation.Register(); err != nil {
		logger.Warn("register validators", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.RequestID(), middleware.Logger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	// 写接口在开启 JWT 时需要鉴权
	write := v1.Group("")
	if cfg.JWT.Enabled {
		write.Use(middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer))
	}

	v1.GET("/people", h.ListPeople)
	v1.GET("/people/:id", h.GetPerson)
	write.POST("/people", h.CreatePerson)
	write.PATCH("/people/:id", h.UpdatePerson)
	write.DELETE("/people/:id", h.DeletePerson)
	write.POST("/people/:id/stars", h.AddStars)

	v1.GET("/users", h.ListUsers)
	v1.GET("/users/:id", h.GetUser)
	v1.GET("/users/:id/followers", h.ListFollowers)
	v1.GET("/users/:id/following", h.ListFollowing)
	v1.GET("/users/:id/blocks", h.ListBlocks)
	v1.GET("/users/:id/relations", h.ListRelations)
	v1.GET("/users/:id/follower-relations", h.ListFollowerRelations)
	v1.GET("/users/:id/followee-relations", h.ListFolloweeRelations)
	write.POST("/users", h.CreateUser)
	write.DELETE("/users/:id", h.DeleteUser)

	relations := write.Group("/relations")
	{
		relations.POST("/follow", h.Follow)
		relations.POST("/block", h.Block)
		relations.POST("/unfollow", h.Unfollow)
		relations.POST("/unblock", h.Unblock)
		relations.POST("/bulk", h.BulkCreate)
	}

	return r
}
