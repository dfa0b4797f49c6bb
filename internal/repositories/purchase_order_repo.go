package repositories

import (
	"context"

	"repairdesk/internal/models"

	"github.com/google/uuid"
)

type PurchaseOrderRepository interface {
	// Create inserts the order keyed by its quotation id and reports false if
	// an order for that quotation already exists.
	Create(ctx context.Context, po *models.PurchaseOrder) (bool, error)
	GetByQuotationID(ctx context.Context, quotationID uuid.UUID) (*models.PurchaseOrder, error)
}

type purchaseOrderRepo struct {
	db DBTX
}

func NewPurchaseOrderRepo(db DBTX) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) Create(ctx context.Context, po *models.PurchaseOrder) (bool, error) {
	query := `
		INSERT INTO purchase_orders (id, quotation_id, supplier_id, item_id, quantity, unit_price, need_by_date, special_notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (quotation_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, po.ID, po.QuotationID, po.SupplierID, po.ItemID, po.Quantity, po.UnitPrice, po.NeedByDate, po.SpecialNotes, po.CreatedBy, po.CreatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *purchaseOrderRepo) GetByQuotationID(ctx context.Context, quotationID uuid.UUID) (*models.PurchaseOrder, error) {
	query := `
		SELECT id, quotation_id, supplier_id, item_id, quantity, unit_price, need_by_date, special_notes, created_by, created_at
		FROM purchase_orders
		WHERE quotation_id = $1
	`
	po := &models.PurchaseOrder{}
	err := r.db.QueryRow(ctx, query, quotationID).Scan(&po.ID, &po.QuotationID, &po.SupplierID, &po.ItemID, &po.Quantity, &po.UnitPrice, &po.NeedByDate, &po.SpecialNotes, &po.CreatedBy, &po.CreatedAt)
	if err != nil {
		return nil, err
	}
	return po, nil
}
