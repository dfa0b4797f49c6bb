package repositories

import (
	"context"
	"errors"
	"fmt"

	"repairdesk/internal/common"
	"repairdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BatchRepository interface {
	Create(ctx context.Context, batch *models.InventoryBatch) error
	Get(ctx context.Context, itemID uuid.UUID, batchNo string) (*models.InventoryBatch, error)
	GetRemaining(ctx context.Context, itemID uuid.UUID, batchNo string) (int, error)
	// AdjustRemaining applies a signed delta to the batch's remaining quantity
	// and returns the new value. The change is a single guarded UPDATE so
	// concurrent adjustments of one batch serialize on its row lock.
	AdjustRemaining(ctx context.Context, itemID uuid.UUID, batchNo string, delta int) (int, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryBatch, error)
}

type batchRepo struct {
	db DBTX
}

func NewBatchRepo(db DBTX) BatchRepository {
	return &batchRepo{db: db}
}

func batchRef(itemID uuid.UUID, batchNo string) string {
	return fmt.Sprintf("%s/%s", itemID, batchNo)
}

func (r *batchRepo) Create(ctx context.Context, batch *models.InventoryBatch) error {
	query := `
		INSERT INTO inventory_batches (item_id, batch_no, unit_price, original_quantity, remaining_quantity, purchase_date, supplier_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, batch.ItemID, batch.BatchNo, batch.UnitPrice, batch.OriginalQuantity, batch.RemainingQuantity, batch.PurchaseDate, batch.SupplierID).Scan(&batch.CreatedAt)
}

func (r *batchRepo) Get(ctx context.Context, itemID uuid.UUID, batchNo string) (*models.InventoryBatch, error) {
	query := `
		SELECT item_id, batch_no, unit_price, original_quantity, remaining_quantity, purchase_date, supplier_id, created_at
		FROM inventory_batches
		WHERE item_id = $1 AND batch_no = $2
	`
	b := &models.InventoryBatch{}
	err := r.db.QueryRow(ctx, query, itemID, batchNo).Scan(&b.ItemID, &b.BatchNo, &b.UnitPrice, &b.OriginalQuantity, &b.RemainingQuantity, &b.PurchaseDate, &b.SupplierID, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *batchRepo) GetRemaining(ctx context.Context, itemID uuid.UUID, batchNo string) (int, error) {
	query := `SELECT remaining_quantity FROM inventory_batches WHERE item_id = $1 AND batch_no = $2`
	var remaining int
	if err := r.db.QueryRow(ctx, query, itemID, batchNo).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.NotFoundError("inventory_batch", batchRef(itemID, batchNo))
		}
		return 0, err
	}
	return remaining, nil
}

func (r *batchRepo) AdjustRemaining(ctx context.Context, itemID uuid.UUID, batchNo string, delta int) (int, error) {
	query := `
		UPDATE inventory_batches
		SET remaining_quantity = remaining_quantity + $3
		WHERE item_id = $1 AND batch_no = $2
		  AND remaining_quantity + $3 >= 0
		  AND remaining_quantity + $3 <= original_quantity
		RETURNING remaining_quantity
	`
	var remaining int
	err := r.db.QueryRow(ctx, query, itemID, batchNo, delta).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// The guard rejected the change or the batch is gone; find out which.
	var current, original int
	probe := `SELECT remaining_quantity, original_quantity FROM inventory_batches WHERE item_id = $1 AND batch_no = $2`
	if err := r.db.QueryRow(ctx, probe, itemID, batchNo).Scan(&current, &original); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.NotFoundError("inventory_batch", batchRef(itemID, batchNo))
		}
		return 0, err
	}
	if current+delta < 0 {
		return 0, common.InsufficientStockError("inventory_batch", batchRef(itemID, batchNo),
			fmt.Sprintf("remaining %d, requested %d", current, -delta), nil)
	}
	return 0, common.ConflictError("inventory_batch", batchRef(itemID, batchNo),
		fmt.Sprintf("remaining %d%+d would exceed original quantity %d", current, delta, original))
}

func (r *batchRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryBatch, error) {
	query := `
		SELECT item_id, batch_no, unit_price, original_quantity, remaining_quantity, purchase_date, supplier_id, created_at
		FROM inventory_batches
		WHERE item_id = $1
		ORDER BY purchase_date, batch_no
	`
	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := []*models.InventoryBatch{}
	for rows.Next() {
		b := &models.InventoryBatch{}
		if err := rows.Scan(&b.ItemID, &b.BatchNo, &b.UnitPrice, &b.OriginalQuantity, &b.RemainingQuantity, &b.PurchaseDate, &b.SupplierID, &b.CreatedAt); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
