package repositories

import (
	"context"

	"repairdesk/internal/models"

	"github.com/google/uuid"
)

type UsedInventoryRepository interface {
	// Create inserts the record with the batch's unit price copied in the same
	// statement. It reports false when a record for the key already exists.
	Create(ctx context.Context, usage *models.UsedInventory) (bool, error)
	Get(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) (*models.UsedInventory, error)
	GetForUpdate(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) (*models.UsedInventory, error)
	UpdateQuantity(ctx context.Context, jobID, itemID uuid.UUID, batchNo string, quantity int) error
	Delete(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) error
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]*models.UsedInventory, error)
}

type usedInventoryRepo struct {
	db DBTX
}

func NewUsedInventoryRepo(db DBTX) UsedInventoryRepository {
	return &usedInventoryRepo{db: db}
}

const usageColumns = `job_id, item_id, batch_no, quantity_used, unit_price, recorded_by, created_at, updated_at`

func (r *usedInventoryRepo) Create(ctx context.Context, u *models.UsedInventory) (bool, error) {
	query := `
		INSERT INTO used_inventory (` + usageColumns + `)
		SELECT $1, b.item_id, b.batch_no, $4, b.unit_price, $5, NOW(), NOW()
		FROM inventory_batches b
		WHERE b.item_id = $2 AND b.batch_no = $3
		ON CONFLICT (job_id, item_id, batch_no) DO NOTHING
		RETURNING unit_price, created_at, updated_at
	`
	rows, err := r.db.Query(ctx, query, u.JobID, u.ItemID, u.BatchNo, u.QuantityUsed, u.RecordedBy)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	created := false
	for rows.Next() {
		if err := rows.Scan(&u.UnitPrice, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return false, err
		}
		created = true
	}
	return created, rows.Err()
}

func (r *usedInventoryRepo) get(ctx context.Context, query string, jobID, itemID uuid.UUID, batchNo string) (*models.UsedInventory, error) {
	u := &models.UsedInventory{}
	err := r.db.QueryRow(ctx, query, jobID, itemID, batchNo).Scan(&u.JobID, &u.ItemID, &u.BatchNo, &u.QuantityUsed, &u.UnitPrice, &u.RecordedBy, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *usedInventoryRepo) Get(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) (*models.UsedInventory, error) {
	query := `SELECT ` + usageColumns + ` FROM used_inventory WHERE job_id = $1 AND item_id = $2 AND batch_no = $3`
	return r.get(ctx, query, jobID, itemID, batchNo)
}

func (r *usedInventoryRepo) GetForUpdate(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) (*models.UsedInventory, error) {
	query := `SELECT ` + usageColumns + ` FROM used_inventory WHERE job_id = $1 AND item_id = $2 AND batch_no = $3 FOR UPDATE`
	return r.get(ctx, query, jobID, itemID, batchNo)
}

func (r *usedInventoryRepo) UpdateQuantity(ctx context.Context, jobID, itemID uuid.UUID, batchNo string, quantity int) error {
	query := `
		UPDATE used_inventory
		SET quantity_used = $4, updated_at = NOW()
		WHERE job_id = $1 AND item_id = $2 AND batch_no = $3
	`
	_, err := r.db.Exec(ctx, query, jobID, itemID, batchNo, quantity)
	return err
}

func (r *usedInventoryRepo) Delete(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) error {
	query := `DELETE FROM used_inventory WHERE job_id = $1 AND item_id = $2 AND batch_no = $3`
	_, err := r.db.Exec(ctx, query, jobID, itemID, batchNo)
	return err
}

func (r *usedInventoryRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*models.UsedInventory, error) {
	query := `SELECT ` + usageColumns + ` FROM used_inventory WHERE job_id = $1 ORDER BY created_at, item_id, batch_no`
	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.UsedInventory
	for rows.Next() {
		u := &models.UsedInventory{}
		if err := rows.Scan(&u.JobID, &u.ItemID, &u.BatchNo, &u.QuantityUsed, &u.UnitPrice, &u.RecordedBy, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, u)
	}
	return records, rows.Err()
}
