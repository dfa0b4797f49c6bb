package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"repairdesk/internal/caching"
	"repairdesk/internal/config"
	"repairdesk/internal/jobs"
	"repairdesk/internal/repositories"
	"repairdesk/internal/services"
	"repairdesk/pkg/database"
)

type appOptions struct {
	withCache   bool
	withObjects bool
}

// app holds the long-lived clients and the services built on them.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	pool    *pgxpool.Pool
	store   repositories.Store
	redis   *redis.Client
	cache   caching.CacheService
	objects services.MinioService

	batches    services.BatchService
	ledger     services.LedgerService
	quotations services.QuotationService
	warranty   services.WarrantyService
	lowStock   *jobs.LowStockAlertJob
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, opts appOptions) (*app, error) {
	pool, err := database.NewPool(ctx, cfg.Database.URL, log)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		logger: log,
		pool:   pool,
		store:  repositories.NewStore(pool),
	}

	if opts.withCache {
		a.cache, a.redis = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	}

	if opts.withObjects {
		objects, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create object storage client: %w", err)
		}
		bucketCtx, cancel := context.WithTimeout(ctx, cfg.StorageTimeout)
		defer cancel()
		if err := objects.EnsureBucketExists(bucketCtx, cfg.Minio.EvidenceBucket); err != nil {
			// evidence uploads report unavailable until the store comes back
			log.Warn("evidence bucket not ready", zap.String("bucket", cfg.Minio.EvidenceBucket), zap.Error(err))
		}
		a.objects = objects
	}

	clock := services.Clock(time.Now)
	a.batches = services.NewBatchService(a.store, log, cfg.StorageTimeout)
	a.ledger = services.NewLedgerService(a.store, log, cfg.StorageTimeout)
	if a.cache != nil {
		a.quotations = services.NewQuotationService(a.store, a.cache, log, clock, cfg.Location(), cfg.StorageTimeout)
		a.lowStock = jobs.NewLowStockAlertJob(a.batches, a.cache, log, clock)
		if a.objects != nil {
			a.warranty = services.NewWarrantyService(a.store, a.cache, a.objects, cfg.Minio.EvidenceBucket, log, clock, cfg.StorageTimeout)
		}
	}
	return a, nil
}

func (a *app) Migrate(ctx context.Context) error {
	return database.Migrate(ctx, a.pool, a.logger)
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	a.pool.Close()
}
