package services

import (
	"context"
	"io"
	"sync"
	"time"

	"repairdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memCache is a map-backed caching.CacheService.
type memCache struct {
	mu     sync.Mutex
	orders map[uuid.UUID]models.PurchaseOrder
	claims map[uuid.UUID]models.WarrantyClaim
	locks  map[string]string
	err    error
}

func newMemCache() *memCache {
	return &memCache{
		orders: map[uuid.UUID]models.PurchaseOrder{},
		claims: map[uuid.UUID]models.WarrantyClaim{},
		locks:  map[string]string{},
	}
}

func (c *memCache) GetPurchaseOrder(ctx context.Context, quotationID uuid.UUID) (*models.PurchaseOrder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	po, ok := c.orders[quotationID]
	if !ok {
		return nil, nil
	}
	return &po, nil
}

func (c *memCache) SetPurchaseOrder(ctx context.Context, po *models.PurchaseOrder, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.orders[po.QuotationID] = *po
	return nil
}

func (c *memCache) GetWarrantyClaim(ctx context.Context, jobID uuid.UUID) (*models.WarrantyClaim, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	claim, ok := c.claims[jobID]
	if !ok {
		return nil, nil
	}
	return &claim, nil
}

func (c *memCache) SetWarrantyClaim(ctx context.Context, claim *models.WarrantyClaim, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.claims[claim.JobID] = *claim
	return nil
}

func (c *memCache) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.locks[key]; held {
		return false, nil
	}
	c.locks[key] = owner
	return true, nil
}

func (c *memCache) ReleaseLock(ctx context.Context, key, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] == owner {
		delete(c.locks, key)
	}
	return nil
}

func (c *memCache) Ping(ctx context.Context) error {
	return c.err
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) ListObjects(ctx context.Context, bucketName, prefix string) ([]ObjectInfo, error) {
	args := m.Called(ctx, bucketName, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ObjectInfo), args.Error(1)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *MockMinioService) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
