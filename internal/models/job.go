package models

import (
	"time"

	"github.com/google/uuid"
)

type ClaimStatus string

const (
	ClaimStatusNone    ClaimStatus = "none"
	ClaimStatusClaimed ClaimStatus = "claimed"
)

// Job is a repair job owned by the front desk. The back office only reads it
// and flips its warranty claim status.
type Job struct {
	ID                  uuid.UUID   `json:"id" db:"id"`
	CustomerName        string      `json:"customer_name" db:"customer_name"`
	ProductName         string      `json:"product_name" db:"product_name"`
	WarrantyExpDate     *time.Time  `json:"warranty_exp_date" db:"warranty_exp_date"`
	WarrantyClaimStatus ClaimStatus `json:"warranty_claim_status" db:"warranty_claim_status"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
}

func (j *Job) HasWarranty() bool {
	return j.WarrantyExpDate != nil
}
