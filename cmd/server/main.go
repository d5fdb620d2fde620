package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/relation-models/config"
	"github.com/d60-Lab/relation-models/internal/api"
	"github.com/d60-Lab/relation-models/internal/api/handler"
	"github.com/d60-Lab/relation-models/internal/migration"
	"github.com/d60-Lab/relation-models/internal/repository"
	"github.com/d60-Lab/relation-models/internal/service"
	"github.com/d60-Lab/relation-models/pkg/database"
	"github.com/d60-Lab/relation-models/pkg/logger"
	"github.com/d60-Lab/relation-models/pkg/tracing"
)

// @title Relation Models API
// @version 1.0
// @description 人员字段与 Twitter 风格关注/拉黑关系服务
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Error("tracing init failed", zap.Error(err))
		os.Exit(1)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		os.Exit(1)
	}
	if cfg.Database.AutoMigrate {
		if err := migration.Run(db); err != nil {
			logger.Error("migrate failed", zap.Error(err))
			os.Exit(1)
		}
	}

	rdb, err := database.InitRedis(cfg)
	if err != nil {
		// 缓存不可用时直接读库
		logger.Warn("redis unavailable, cache disabled", zap.Error(err))
	}
	var cache *service.RelationCache
	if rdb != nil {
		cache = service.NewRelationCache(rdb, cfg.Redis.TTL)
	}

	relSvc := service.NewRelationshipService(
		repository.NewTwitterUserRepository(db),
		repository.NewRelationRepository(db),
		cache,
	)
	personSvc := service.NewPersonService(repository.NewPersonRepository(db))
	router := api.NewRouter(cfg, handler.NewHandler(relSvc, personSvc))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
