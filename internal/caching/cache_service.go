package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"repairdesk/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "repairdesk"

// CacheService holds read-through copies of records that never change once
// written. Derived values such as available quantity or warranty status are
// never cached.
type CacheService interface {
	GetPurchaseOrder(ctx context.Context, quotationID uuid.UUID) (*models.PurchaseOrder, error)
	SetPurchaseOrder(ctx context.Context, po *models.PurchaseOrder, ttl time.Duration) error

	GetWarrantyClaim(ctx context.Context, jobID uuid.UUID) (*models.WarrantyClaim, error)
	SetWarrantyClaim(ctx context.Context, claim *models.WarrantyClaim, ttl time.Duration) error

	// AcquireLock takes a best-effort lease used to keep periodic jobs from
	// running on more than one replica at a time.
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, owner string) error

	Ping(ctx context.Context) error
}

var releaseLockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

type redisCacheService struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// ParseRedisAddr strips a redis:// or rediss:// scheme so the value can be
// used as a host:port address.
func ParseRedisAddr(addr string) string {
	for _, scheme := range []string{"redis://", "rediss://"} {
		if strings.HasPrefix(addr, scheme) {
			return strings.TrimPrefix(addr, scheme)
		}
	}
	return addr
}

// NewRedisCacheService dials redis and returns the service together with the
// client so the caller can close it on shutdown.
func NewRedisCacheService(addr, password string, db int, logger *zap.Logger) (CacheService, *redis.Client) {
	parsedAddr := ParseRedisAddr(addr)
	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn("redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(pingErr))
	} else {
		logger.Debug("redis connection established", zap.String("addr", parsedAddr))
	}

	return NewCacheServiceWithClient(client, logger), client
}

func NewCacheServiceWithClient(client redis.UniversalClient, logger *zap.Logger) CacheService {
	return &redisCacheService{client: client, logger: logger}
}

func purchaseOrderKey(quotationID uuid.UUID) string {
	return fmt.Sprintf("%s:purchase_order:%s", keyPrefix, quotationID)
}

func warrantyClaimKey(jobID uuid.UUID) string {
	return fmt.Sprintf("%s:warranty_claim:%s", keyPrefix, jobID)
}

func lockKey(key string) string {
	return fmt.Sprintf("%s:lock:%s", keyPrefix, key)
}

// getJSON returns false on a cache miss.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetPurchaseOrder(ctx context.Context, quotationID uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	found, err := r.getJSON(ctx, purchaseOrderKey(quotationID), &po)
	if err != nil || !found {
		return nil, err
	}
	return &po, nil
}

func (r *redisCacheService) SetPurchaseOrder(ctx context.Context, po *models.PurchaseOrder, ttl time.Duration) error {
	return r.setJSON(ctx, purchaseOrderKey(po.QuotationID), po, ttl)
}

func (r *redisCacheService) GetWarrantyClaim(ctx context.Context, jobID uuid.UUID) (*models.WarrantyClaim, error) {
	var claim models.WarrantyClaim
	found, err := r.getJSON(ctx, warrantyClaimKey(jobID), &claim)
	if err != nil || !found {
		return nil, err
	}
	return &claim, nil
}

func (r *redisCacheService) SetWarrantyClaim(ctx context.Context, claim *models.WarrantyClaim, ttl time.Duration) error {
	return r.setJSON(ctx, warrantyClaimKey(claim.JobID), claim, ttl)
}

func (r *redisCacheService) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, lockKey(key), owner, ttl).Result()
}

func (r *redisCacheService) ReleaseLock(ctx context.Context, key, owner string) error {
	return releaseLockScript.Run(ctx, r.client, []string{lockKey(key)}, owner).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
