package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UsedInventory records the quantity of one batch consumed by a repair job.
// UnitPrice is copied from the batch when the record is created and is never
// re-read afterwards, so historical job totals do not move.
type UsedInventory struct {
	JobID        uuid.UUID       `json:"job_id" db:"job_id"`
	ItemID       uuid.UUID       `json:"item_id" db:"item_id"`
	BatchNo      string          `json:"batch_no" db:"batch_no"`
	QuantityUsed int             `json:"quantity_used" db:"quantity_used"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	RecordedBy   *string         `json:"recorded_by,omitempty" db:"recorded_by"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

func (u *UsedInventory) LineTotal() decimal.Decimal {
	return u.UnitPrice.Mul(decimal.NewFromInt(int64(u.QuantityUsed)))
}

// JobUsage is the ledger of a job with its total recomputed from the records.
type JobUsage struct {
	JobID       uuid.UUID        `json:"job_id"`
	Records     []*UsedInventory `json:"records"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
}

// NewJobUsage builds the ledger view; the total is always derived from records.
func NewJobUsage(jobID uuid.UUID, records []*UsedInventory) *JobUsage {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.LineTotal())
	}
	if records == nil {
		records = []*UsedInventory{}
	}
	return &JobUsage{
		JobID:       jobID,
		Records:     records,
		TotalAmount: total,
	}
}
