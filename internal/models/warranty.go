package models

import (
	"time"

	"github.com/google/uuid"
)

type WarrantyStatus string

const (
	WarrantyStatusActive     WarrantyStatus = "active"
	WarrantyStatusExpired    WarrantyStatus = "expired"
	WarrantyStatusNoWarranty WarrantyStatus = "no_warranty"
)

type WarrantyClaim struct {
	ID               uuid.UUID `json:"id" db:"id"`
	JobID            uuid.UUID `json:"job_id" db:"job_id"`
	ClaimedAt        time.Time `json:"claimed_at" db:"claimed_at"`
	ClaimedBy        *string   `json:"claimed_by,omitempty" db:"claimed_by"`
	IssueDescription *string   `json:"issue_description,omitempty" db:"issue_description"`
}

// JobWarranty is a job together with its warranty status derived at read time.
type JobWarranty struct {
	Job    *Job           `json:"job"`
	Status WarrantyStatus `json:"warranty_status"`
}

// ClaimEvidence describes an uploaded file attached to a warranty claim.
type ClaimEvidence struct {
	ObjectName string    `json:"object_name"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}
