// Package main runs the background workers (submission notifications, presenter sync).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/masterclass-hub/backend/config"
	"github.com/masterclass-hub/backend/internal/directory"
	"github.com/masterclass-hub/backend/internal/notify"
	"github.com/masterclass-hub/backend/internal/presenters"
	"github.com/masterclass-hub/backend/internal/worker"
	"github.com/masterclass-hub/backend/pkg/database"
	"github.com/masterclass-hub/backend/pkg/queue"
	"github.com/masterclass-hub/backend/pkg/redis"
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

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jobQueue := queue.NewQueue(rdb.Client, logger)
	mattermost := notify.NewMattermost(cfg.Mattermost, logger)
	processor := worker.NewNotifyProcessor(jobQueue, mattermost, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Run(workerCtx)

	if cfg.Directory.URL != "" {
		presenterRepo := presenters.NewRepository(pool)
		dirClient := directory.NewClient(cfg.Directory.URL, cfg.Directory.Token)
		sync := worker.NewPresenterSync(cfg.Directory, dirClient, presenterRepo, logger)
		go sync.Run(workerCtx)
	} else {
		logger.Info("directory sync disabled (DIRECTORY_API_URL not set)")
	}

	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
