package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"repairdesk/internal/common"
	"repairdesk/internal/models"
	"repairdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// LedgerService records the parts each repair job consumes. Every mutation
// adjusts the batch's remaining quantity in the same transaction as the
// ledger row, so the two never disagree.
type LedgerService interface {
	RecordUsage(ctx context.Context, jobID, itemID uuid.UUID, batchNo string, quantity int) (*models.UsedInventory, error)
	UpdateUsage(ctx context.Context, jobID, itemID uuid.UUID, batchNo string, newQuantity int) (*models.UsedInventory, error)
	DeleteUsage(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) error
	GetUsageForJob(ctx context.Context, jobID uuid.UUID) (*models.JobUsage, error)
}

type ledgerService struct {
	store   repositories.Store
	logger  *zap.Logger
	timeout time.Duration
}

func NewLedgerService(store repositories.Store, logger *zap.Logger, timeout time.Duration) LedgerService {
	return &ledgerService{
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

func usageRef(jobID, itemID uuid.UUID, batchNo string) string {
	return fmt.Sprintf("%s/%s/%s", jobID, itemID, batchNo)
}

// stockFailure turns a batch adjustment error into what ledger callers see:
// storage trouble stays Unavailable, every domain rejection becomes
// InsufficientStock with the original cause attached.
func stockFailure(itemID uuid.UUID, batchNo string, err error) error {
	ref := fmt.Sprintf("%s/%s", itemID, batchNo)
	err = common.ClassifyStorageError("adjust remaining", "inventory_batch", ref, err)
	if common.IsUnavailable(err) {
		return err
	}
	if errors.Is(err, common.ErrInsufficientStock) {
		return err
	}
	var de *common.DomainError
	if errors.As(err, &de) {
		return common.InsufficientStockError("inventory_batch", ref, "batch adjustment rejected", err)
	}
	return err
}

func validateUsageKey(jobID, itemID uuid.UUID, batchNo string) error {
	if jobID == uuid.Nil {
		return common.ValidationError("job_id", "is required")
	}
	if itemID == uuid.Nil {
		return common.ValidationError("item_id", "is required")
	}
	if strings.TrimSpace(batchNo) == "" {
		return common.ValidationError("batch_no", "is required")
	}
	return nil
}

func (s *ledgerService) RecordUsage(ctx context.Context, jobID, itemID uuid.UUID, batchNo string, quantity int) (*models.UsedInventory, error) {
	if err := validateUsageKey(jobID, itemID, batchNo); err != nil {
		return nil, err
	}
	if err := validateQuantity("quantity", quantity); err != nil {
		return nil, err
	}

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	ref := usageRef(jobID, itemID, batchNo)
	usage := &models.UsedInventory{
		JobID:        jobID,
		ItemID:       itemID,
		BatchNo:      batchNo,
		QuantityUsed: quantity,
		RecordedBy:   common.ActorFromContext(ctx),
	}
	var remaining int

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		exists, err := tx.Jobs().Exists(ctx, jobID)
		if err != nil {
			return err
		}
		if !exists {
			return common.NotFoundError("job", jobID.String())
		}

		if _, err := tx.Usage().Get(ctx, jobID, itemID, batchNo); err == nil {
			return common.ConflictError("used_inventory", ref, "usage already recorded, update it instead")
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		remaining, err = tx.Batches().AdjustRemaining(ctx, itemID, batchNo, -quantity)
		if err != nil {
			return stockFailure(itemID, batchNo, err)
		}

		created, err := tx.Usage().Create(ctx, usage)
		if err != nil {
			return err
		}
		if !created {
			return common.ConflictError("used_inventory", ref, "usage already recorded, update it instead")
		}
		return nil
	})
	if err != nil {
		return nil, common.ClassifyStorageError("record usage", "used_inventory", ref, err)
	}

	s.logger.Info("usage recorded",
		zap.String("job_id", jobID.String()),
		zap.String("item_id", itemID.String()),
		zap.String("batch_no", batchNo),
		zap.Int("quantity", quantity),
		zap.Int("remaining", remaining),
	)
	return usage, nil
}

func (s *ledgerService) UpdateUsage(ctx context.Context, jobID, itemID uuid.UUID, batchNo string, newQuantity int) (*models.UsedInventory, error) {
	if err := validateUsageKey(jobID, itemID, batchNo); err != nil {
		return nil, err
	}
	if err := validateQuantity("quantity", newQuantity); err != nil {
		return nil, err
	}

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	ref := usageRef(jobID, itemID, batchNo)
	var updated *models.UsedInventory
	var delta int

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Usage().GetForUpdate(ctx, jobID, itemID, batchNo)
		if err != nil {
			return err
		}

		delta = current.QuantityUsed - newQuantity
		if delta != 0 {
			if _, err := tx.Batches().AdjustRemaining(ctx, itemID, batchNo, delta); err != nil {
				return stockFailure(itemID, batchNo, err)
			}
			if err := tx.Usage().UpdateQuantity(ctx, jobID, itemID, batchNo, newQuantity); err != nil {
				return err
			}
		}

		current.QuantityUsed = newQuantity
		updated = current
		return nil
	})
	if err != nil {
		return nil, common.ClassifyStorageError("update usage", "used_inventory", ref, err)
	}

	s.logger.Info("usage updated",
		zap.String("job_id", jobID.String()),
		zap.String("item_id", itemID.String()),
		zap.String("batch_no", batchNo),
		zap.Int("quantity", newQuantity),
		zap.Int("stock_delta", delta),
	)
	return updated, nil
}

func (s *ledgerService) DeleteUsage(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) error {
	if err := validateUsageKey(jobID, itemID, batchNo); err != nil {
		return err
	}

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	ref := usageRef(jobID, itemID, batchNo)
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Usage().GetForUpdate(ctx, jobID, itemID, batchNo)
		if err != nil {
			return err
		}

		_, err = tx.Batches().AdjustRemaining(ctx, itemID, batchNo, current.QuantityUsed)
		switch {
		case err == nil:
		case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrConflict):
			s.logger.Warn("stock not restored for deleted usage",
				zap.Error(err),
				zap.String("job_id", jobID.String()),
				zap.String("item_id", itemID.String()),
				zap.String("batch_no", batchNo),
				zap.Int("quantity", current.QuantityUsed),
			)
		default:
			return err
		}

		return tx.Usage().Delete(ctx, jobID, itemID, batchNo)
	})
	if err != nil {
		return common.ClassifyStorageError("delete usage", "used_inventory", ref, err)
	}

	s.logger.Info("usage deleted",
		zap.String("job_id", jobID.String()),
		zap.String("item_id", itemID.String()),
		zap.String("batch_no", batchNo),
	)
	return nil
}

func (s *ledgerService) GetUsageForJob(ctx context.Context, jobID uuid.UUID) (*models.JobUsage, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.store.Jobs().Exists(ctx, jobID)
	if err != nil {
		return nil, common.ClassifyStorageError("get job", "job", jobID.String(), err)
	}
	if !exists {
		return nil, common.NotFoundError("job", jobID.String())
	}

	records, err := s.store.Usage().ListByJob(ctx, jobID)
	if err != nil {
		return nil, common.ClassifyStorageError("list usage", "job", jobID.String(), err)
	}
	return models.NewJobUsage(jobID, records), nil
}
