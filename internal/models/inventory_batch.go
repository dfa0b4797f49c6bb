package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryBatch is a priced lot of stock for one inventory item.
// RemainingQuantity always stays within [0, OriginalQuantity].
type InventoryBatch struct {
	ItemID            uuid.UUID       `json:"item_id" db:"item_id"`
	BatchNo           string          `json:"batch_no" db:"batch_no"`
	UnitPrice         decimal.Decimal `json:"unit_price" db:"unit_price"`
	OriginalQuantity  int             `json:"original_quantity" db:"original_quantity"`
	RemainingQuantity int             `json:"remaining_quantity" db:"remaining_quantity"`
	PurchaseDate      time.Time       `json:"purchase_date" db:"purchase_date"`
	SupplierID        uuid.UUID       `json:"supplier_id" db:"supplier_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// ItemBatches is the read model for an item together with all of its batches.
type ItemBatches struct {
	Item    *InventoryItem    `json:"item"`
	Batches []*InventoryBatch `json:"batches"`
}
