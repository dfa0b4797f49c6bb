package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repairdesk/internal/common"
	"repairdesk/internal/models"
	"repairdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchService owns inventory items and their priced batches.
type BatchService interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	AddBatch(ctx context.Context, batch *models.InventoryBatch) error
	ListBatchesForItem(ctx context.Context, itemID uuid.UUID) (*models.ItemBatches, error)
	GetRemaining(ctx context.Context, itemID uuid.UUID, batchNo string) (int, error)
	LowStockItems(ctx context.Context) ([]*models.InventoryItem, error)
}

type batchService struct {
	store   repositories.Store
	logger  *zap.Logger
	timeout time.Duration
}

func NewBatchService(store repositories.Store, logger *zap.Logger, timeout time.Duration) BatchService {
	return &batchService{
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

func (s *batchService) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if err := common.ValidateRequiredString(item.Name, "name"); err != nil {
		return common.ValidationError("name", err.Error())
	}
	if item.OutOfStockThreshold < 0 {
		return common.ValidationError("out_of_stock_threshold", "must not be negative")
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Items().Create(ctx, item); err != nil {
		return common.ClassifyStorageError("create inventory item", "inventory_item", item.ID.String(), err)
	}
	s.logger.Info("inventory item created", zap.String("item_id", item.ID.String()), zap.String("name", item.Name))
	return nil
}

func (s *batchService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	item, err := s.store.Items().GetByID(ctx, id)
	if err != nil {
		return nil, common.ClassifyStorageError("get inventory item", "inventory_item", id.String(), err)
	}
	return item, nil
}

func validateBatch(batch *models.InventoryBatch) error {
	batch.BatchNo = strings.TrimSpace(batch.BatchNo)
	if batch.BatchNo == "" {
		return common.ValidationError("batch_no", "is required")
	}
	if batch.ItemID == uuid.Nil {
		return common.ValidationError("item_id", "is required")
	}
	if batch.SupplierID == uuid.Nil {
		return common.ValidationError("supplier_id", "is required")
	}
	if err := validateQuantity("original_quantity", batch.OriginalQuantity); err != nil {
		return err
	}
	if err := validateUnitPrice("unit_price", batch.UnitPrice); err != nil {
		return err
	}
	if batch.PurchaseDate.IsZero() {
		return common.ValidationError("purchase_date", "is required")
	}
	return nil
}

func (s *batchService) AddBatch(ctx context.Context, batch *models.InventoryBatch) error {
	if err := validateBatch(batch); err != nil {
		return err
	}
	// a new lot starts full
	batch.RemainingQuantity = batch.OriginalQuantity

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	ref := fmt.Sprintf("%s/%s", batch.ItemID, batch.BatchNo)
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Items().GetByID(ctx, batch.ItemID); err != nil {
			return common.ClassifyStorageError("load inventory item", "inventory_item", batch.ItemID.String(), err)
		}
		return tx.Batches().Create(ctx, batch)
	})
	if err != nil {
		return common.ClassifyStorageError("add batch", "inventory_batch", ref, err)
	}
	s.logger.Info("inventory batch added",
		zap.String("item_id", batch.ItemID.String()),
		zap.String("batch_no", batch.BatchNo),
		zap.Int("quantity", batch.OriginalQuantity),
		zap.String("unit_price", batch.UnitPrice.StringFixed(2)),
	)
	return nil
}

func (s *batchService) ListBatchesForItem(ctx context.Context, itemID uuid.UUID) (*models.ItemBatches, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	item, err := s.store.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, common.ClassifyStorageError("get inventory item", "inventory_item", itemID.String(), err)
	}
	batches, err := s.store.Batches().ListByItem(ctx, itemID)
	if err != nil {
		return nil, common.ClassifyStorageError("list batches", "inventory_item", itemID.String(), err)
	}
	return &models.ItemBatches{Item: item, Batches: batches}, nil
}

func (s *batchService) GetRemaining(ctx context.Context, itemID uuid.UUID, batchNo string) (int, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	remaining, err := s.store.Batches().GetRemaining(ctx, itemID, batchNo)
	if err != nil {
		return 0, common.ClassifyStorageError("get remaining", "inventory_batch", fmt.Sprintf("%s/%s", itemID, batchNo), err)
	}
	return remaining, nil
}

func (s *batchService) LowStockItems(ctx context.Context) ([]*models.InventoryItem, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.store.Items().ListLowStock(ctx)
	if err != nil {
		return nil, common.ClassifyStorageError("list low stock items", "inventory_item", "", err)
	}
	return items, nil
}
