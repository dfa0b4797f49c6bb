package repositories

import (
	"context"

	"repairdesk/internal/models"

	"github.com/google/uuid"
)

type WarrantyClaimRepository interface {
	Create(ctx context.Context, claim *models.WarrantyClaim) error
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.WarrantyClaim, error)
}

type warrantyClaimRepo struct {
	db DBTX
}

func NewWarrantyClaimRepo(db DBTX) WarrantyClaimRepository {
	return &warrantyClaimRepo{db: db}
}

func (r *warrantyClaimRepo) Create(ctx context.Context, claim *models.WarrantyClaim) error {
	query := `
		INSERT INTO warranty_claims (id, job_id, claimed_at, claimed_by, issue_description)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, claim.ID, claim.JobID, claim.ClaimedAt, claim.ClaimedBy, claim.IssueDescription)
	return err
}

func (r *warrantyClaimRepo) GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.WarrantyClaim, error) {
	query := `
		SELECT id, job_id, claimed_at, claimed_by, issue_description
		FROM warranty_claims
		WHERE job_id = $1
	`
	c := &models.WarrantyClaim{}
	err := r.db.QueryRow(ctx, query, jobID).Scan(&c.ID, &c.JobID, &c.ClaimedAt, &c.ClaimedBy, &c.IssueDescription)
	if err != nil {
		return nil, err
	}
	return c, nil
}
