// Package main runs the masterclass catalog HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/masterclass-hub/backend/config"
	"github.com/masterclass-hub/backend/internal/auth"
	"github.com/masterclass-hub/backend/internal/discovery"
	"github.com/masterclass-hub/backend/internal/live"
	"github.com/masterclass-hub/backend/internal/middleware"
	"github.com/masterclass-hub/backend/internal/models"
	"github.com/masterclass-hub/backend/internal/presenters"
	"github.com/masterclass-hub/backend/internal/submissions"
	"github.com/masterclass-hub/backend/internal/tags"
	"github.com/masterclass-hub/backend/internal/uploads"
	"github.com/masterclass-hub/backend/internal/videos"
	"github.com/masterclass-hub/backend/pkg/database"
	"github.com/masterclass-hub/backend/pkg/queue"
	"github.com/masterclass-hub/backend/pkg/redis"
	"github.com/masterclass-hub/backend/pkg/response"
	"github.com/masterclass-hub/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	var jobQueue *queue.Queue
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Warn("redis unavailable, submission notifications disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		jobQueue = queue.NewQueue(rdb.Client, logger)
	}

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ThumbnailsBucket:     cfg.AWS.ThumbnailsBucket,
			HeadshotsBucket:      cfg.AWS.HeadshotsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Catalog
	videoRepo := videos.NewRepository(pool)
	tagRepo := tags.NewRepository(pool)
	presenterRepo := presenters.NewRepository(pool)
	engine := discovery.NewEngine(videoRepo)
	catalogHandler := videos.NewHandler(videoRepo, engine, tagRepo, presenterRepo, cfg.Catalog.PageSize, logger)
	videoAdmin := videos.NewAdminHandler(videoRepo, logger)
	tagHandler := tags.NewHandler(tagRepo)
	presenterHandler := presenters.NewHandler(presenterRepo, videoRepo)

	// Submissions
	submissionRepo := submissions.NewRepository(pool)
	submissionHandler := submissions.NewHandler(submissionRepo, jobQueue, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Uploads
	uploadHandler := uploads.NewHandler(s3Client, logger)

	// Live banner updates over WebSocket
	hub := live.NewHub(logger)
	watcher := live.NewWatcher(hub, engine, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public catalog
	router.GET("/videos", catalogHandler.List)
	router.GET("/videos/:slug", catalogHandler.Detail)
	router.GET("/random", catalogHandler.Random)
	router.GET("/live", catalogHandler.Live)
	router.POST("/submissions", submissionHandler.Create)

	// Auth (public)
	router.POST("/auth/login", authHandler.Login)

	// Back-office (JWT required)
	admin := router.Group("/admin")
	admin.Use(middleware.JWT(jwtService), middleware.RequireRole(models.RoleAdmin, models.RoleStaff))
	{
		admin.GET("/videos/:id", videoAdmin.Get)
		admin.POST("/videos", videoAdmin.Create)
		admin.PUT("/videos/:id", videoAdmin.Update)
		admin.DELETE("/videos/:id", videoAdmin.Delete)
		admin.PUT("/videos/:id/tags", videoAdmin.SetTags)
		admin.PUT("/videos/:id/presenters", videoAdmin.SetPresenters)

		admin.GET("/tags", tagHandler.List)
		admin.POST("/tags", tagHandler.Create)
		admin.PATCH("/tags/:id", tagHandler.Update)
		admin.DELETE("/tags/:id", tagHandler.Delete)
		admin.GET("/tag-categories", tagHandler.ListCategories)
		admin.POST("/tag-categories", tagHandler.CreateCategory)

		admin.GET("/presenters", presenterHandler.List)
		admin.POST("/presenters", presenterHandler.Create)
		admin.PATCH("/presenters/:id", presenterHandler.Update)
		admin.DELETE("/presenters/:id", presenterHandler.Delete)

		admin.GET("/submissions", submissionHandler.List)
		admin.GET("/submissions/:id", submissionHandler.Get)
		admin.PATCH("/submissions/:id", submissionHandler.UpdateStatus)
		admin.DELETE("/submissions/:id", submissionHandler.Delete)

		admin.POST("/uploads/thumbnail", uploadHandler.ThumbnailUploadURL)
		admin.POST("/uploads/thumbnail/file", uploadHandler.UploadThumbnail)
		admin.DELETE("/uploads/thumbnail", uploadHandler.DeleteThumbnail)
		admin.POST("/uploads/headshot", uploadHandler.HeadshotUploadURL)
		admin.POST("/uploads/headshot/file", uploadHandler.UploadHeadshot)
		admin.DELETE("/uploads/headshot", uploadHandler.DeleteHeadshot)

		// User management is admin only
		admin.GET("/users", middleware.RequireRole(models.RoleAdmin), authHandler.List)
		admin.POST("/users", middleware.RequireRole(models.RoleAdmin), authHandler.Register)
	}

	// Integration API (static token)
	api := router.Group("/api/v1")
	api.Use(middleware.APIToken(cfg.API.Token))
	{
		api.GET("/presenters", presenterHandler.APIList)
		api.GET("/presenters/:hrcId", presenterHandler.APIGet)
		api.GET("/presenters/:hrcId/talks", presenterHandler.APITalksByHRCID)
		api.GET("/presenters/email/:email/talks", presenterHandler.APITalksByEmail)
	}

	// WebSocket (public, broadcast only)
	router.GET("/ws/live", live.ServeWs(hub, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	watcherCtx, watcherCancel := context.WithCancel(context.Background())
	defer watcherCancel()
	go watcher.Run(watcherCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	watcherCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
