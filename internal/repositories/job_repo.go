package repositories

import (
	"context"

	"repairdesk/internal/models"

	"github.com/google/uuid"
)

// JobRepository reads repair jobs created by the front desk. The only write
// is the warranty claim flag.
type JobRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	ListWithWarranty(ctx context.Context) ([]*models.Job, error)
	// MarkClaimed moves the claim status from none to claimed and reports
	// whether this call made the change.
	MarkClaimed(ctx context.Context, id uuid.UUID) (bool, error)
}

type jobRepo struct {
	db DBTX
}

func NewJobRepo(db DBTX) JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, customer_name, product_name, warranty_exp_date, warranty_claim_status, created_at`

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	j := &models.Job{}
	err := r.db.QueryRow(ctx, query, id).Scan(&j.ID, &j.CustomerName, &j.ProductName, &j.WarrantyExpDate, &j.WarrantyClaimStatus, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *jobRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *jobRepo) ListWithWarranty(ctx context.Context) ([]*models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE warranty_exp_date IS NOT NULL
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j := &models.Job{}
		if err := rows.Scan(&j.ID, &j.CustomerName, &j.ProductName, &j.WarrantyExpDate, &j.WarrantyClaimStatus, &j.CreatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) MarkClaimed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE jobs
		SET warranty_claim_status = 'claimed'
		WHERE id = $1 AND warranty_claim_status = 'none'
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
