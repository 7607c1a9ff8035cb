package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "community_hub/internal/domain/article"
	_ "community_hub/internal/domain/common"
	_ "community_hub/internal/domain/group"
	_ "community_hub/internal/domain/post"
	_ "community_hub/internal/domain/user"
	"community_hub/internal/pkg/config"
	"community_hub/internal/pkg/middleware"
	"community_hub/internal/pkg/registry"
	"community_hub/internal/pkg/uploader"
	"community_hub/internal/pkg/worker"
	"community_hub/pkg/cache"
	"community_hub/pkg/database"
	"community_hub/pkg/logger"
	"community_hub/pkg/metrics"
	"community_hub/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger 尚未初始化
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.Env, cfg.App.Debug); err != nil {
		_, _ = os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	// 1. 基础设施
	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug)
	if err != nil {
		logger.Log.Fatal("connect database", zap.Error(err))
	}

	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		logger.Log.Fatal("connect redis", zap.Error(err))
	}

	collector := metrics.GetGlobalCollector()

	up, err := uploader.New(cfg)
	if err != nil {
		logger.Log.Fatal("init uploader", zap.Error(err))
	}

	cleanup := worker.NewCleanupPool(up, 2, 256, collector)
	cleanup.Start()
	defer cleanup.Stop()

	// 2. 路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		middleware.RecoveryMiddleware(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(collector),
		middleware.SecurityHeadersMiddleware(),
		cors.New(corsConfig(cfg.CORS)),
	)

	mctx := &registry.ModuleContext{
		DB:       db,
		Redis:    rdb,
		Router:   r,
		API:      r.Group("/api"),
		Config:   cfg,
		JWT:      utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL()),
		Uploader: up,
		Cleanup:  cleanup,
		Metrics:  collector,
	}
	if rdb != nil {
		mctx.Cache = cache.NewRedisCache(rdb, cfg.App.Env)
	}

	// 3. 模块
	if err := registry.InitModules(mctx); err != nil {
		logger.Log.Fatal("init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Log.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 4. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("server shutdown", zap.Error(err))
	}

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Log.Info("server exited")
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.MaxAge = 12 * time.Hour
	if len(cfg.AllowOrigins) == 0 || (len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return c
}
