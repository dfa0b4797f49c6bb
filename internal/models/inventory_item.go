package models

import (
	"time"

	"github.com/google/uuid"
)

type InventoryItem struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	OutOfStockThreshold int       `json:"out_of_stock_threshold" db:"out_of_stock_threshold"`
	// AvailableQuantity is the sum of remaining quantities across the item's
	// batches. It is computed by the query that loads the item and never stored.
	AvailableQuantity int       `json:"available_quantity" db:"-"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the derived available quantity is at or below
// the item's out-of-stock threshold.
func (i *InventoryItem) IsLowStock() bool {
	return i.AvailableQuantity <= i.OutOfStockThreshold
}
