package repositories

import (
	"context"

	"repairdesk/internal/models"

	"github.com/google/uuid"
)

type InventoryItemRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]*models.InventoryItem, error)
}

type inventoryItemRepo struct {
	db DBTX
}

func NewInventoryItemRepo(db DBTX) InventoryItemRepository {
	return &inventoryItemRepo{db: db}
}

// available quantity is always summed from the batches, never stored
const itemSelect = `
		SELECT i.id, i.name, i.out_of_stock_threshold, COALESCE(SUM(b.remaining_quantity), 0)::int, i.created_at, i.updated_at
		FROM inventory_items i
		LEFT JOIN inventory_batches b ON b.item_id = i.id
`

func (r *inventoryItemRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, name, out_of_stock_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, item.ID, item.Name, item.OutOfStockThreshold).Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *inventoryItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	query := itemSelect + `
		WHERE i.id = $1
		GROUP BY i.id
	`
	item := &models.InventoryItem{}
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.Name, &item.OutOfStockThreshold, &item.AvailableQuantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *inventoryItemRepo) ListLowStock(ctx context.Context) ([]*models.InventoryItem, error) {
	query := itemSelect + `
		GROUP BY i.id
		HAVING COALESCE(SUM(b.remaining_quantity), 0) <= i.out_of_stock_threshold
		ORDER BY i.name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item := &models.InventoryItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.OutOfStockThreshold, &item.AvailableQuantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
