package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/logger"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"
)

const bucketCheckTimeout = 10 * time.Second

func App(cfg *config.Config) (*database.DB, *repository.Repository, *service.Service) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.L.Fatal("не удалось подключиться к БД", zap.Error(err))
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		logger.L.Fatal("не удалось инициализировать MinIO", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), bucketCheckTimeout)
	defer cancel()
	// posts without pictures still work while the bucket is unreachable
	if err := minioClient.EnsureBucket(ctx); err != nil {
		logger.L.Warn("бакет MinIO недоступен", zap.String("bucket", cfg.MinIO.BucketName), zap.Error(err))
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)
	feedCache := cache.NewFeedCache(cfg.FeedCacheSize, cfg.FeedCacheTTL)

	services := service.NewService(repo, db.DB, cfg, minioClient, feedCache)

	return db, repo, services
}
