package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "pending"
	QuotationStatusApproved QuotationStatus = "approved"
)

func (s QuotationStatus) Valid() bool {
	return s == QuotationStatusPending || s == QuotationStatusApproved
}

type Quotation struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	SupplierID  uuid.UUID       `json:"supplier_id" db:"supplier_id"`
	ItemID      uuid.UUID       `json:"item_id" db:"item_id"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Notes       *string         `json:"notes" db:"notes"`
	SubmittedAt time.Time       `json:"submitted_at" db:"submitted_at"`
	Status      QuotationStatus `json:"status" db:"status"`
	ApprovedBy  *string         `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty" db:"approved_at"`
}

// PurchaseOrder is created exactly once per approved quotation; QuotationID is
// its idempotency key.
type PurchaseOrder struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	QuotationID  uuid.UUID       `json:"quotation_id" db:"quotation_id"`
	SupplierID   uuid.UUID       `json:"supplier_id" db:"supplier_id"`
	ItemID       uuid.UUID       `json:"item_id" db:"item_id"`
	Quantity     int             `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	NeedByDate   time.Time       `json:"need_by_date" db:"need_by_date"`
	SpecialNotes *string         `json:"special_notes" db:"special_notes"`
	CreatedBy    *string         `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

func (p *PurchaseOrder) TotalAmount() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// ApprovalRequest carries the order details entered when approving a quotation.
type ApprovalRequest struct {
	QuotationID  uuid.UUID
	Quantity     int
	NeedByDate   time.Time
	SpecialNotes string
}

// ApprovalResult is returned by a successful approval.
type ApprovalResult struct {
	Quotation     *Quotation     `json:"quotation"`
	PurchaseOrder *PurchaseOrder `json:"purchase_order"`
}
