package repositories

import (
	"context"
	"time"

	"repairdesk/internal/models"

	"github.com/google/uuid"
)

type QuotationRepository interface {
	Create(ctx context.Context, q *models.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	List(ctx context.Context, status *models.QuotationStatus, limit, offset int) ([]*models.Quotation, error)
	// MarkApproved flips a pending quotation to approved and reports whether a
	// row changed.
	MarkApproved(ctx context.Context, id uuid.UUID, approvedBy *string, approvedAt time.Time) (bool, error)
}

type quotationRepo struct {
	db DBTX
}

func NewQuotationRepo(db DBTX) QuotationRepository {
	return &quotationRepo{db: db}
}

const quotationColumns = `id, supplier_id, item_id, unit_price, notes, submitted_at, status, approved_by, approved_at`

func scanQuotation(row interface{ Scan(dest ...any) error }) (*models.Quotation, error) {
	q := &models.Quotation{}
	if err := row.Scan(&q.ID, &q.SupplierID, &q.ItemID, &q.UnitPrice, &q.Notes, &q.SubmittedAt, &q.Status, &q.ApprovedBy, &q.ApprovedAt); err != nil {
		return nil, err
	}
	return q, nil
}

func (r *quotationRepo) Create(ctx context.Context, q *models.Quotation) error {
	query := `
		INSERT INTO quotations (id, supplier_id, item_id, unit_price, notes, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, q.ID, q.SupplierID, q.ItemID, q.UnitPrice, q.Notes, q.SubmittedAt, q.Status)
	return err
}

func (r *quotationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`
	return scanQuotation(r.db.QueryRow(ctx, query, id))
}

func (r *quotationRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1 FOR UPDATE`
	return scanQuotation(r.db.QueryRow(ctx, query, id))
}

func (r *quotationRepo) List(ctx context.Context, status *models.QuotationStatus, limit, offset int) ([]*models.Quotation, error) {
	query := `
		SELECT ` + quotationColumns + `
		FROM quotations
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3
	`
	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}
	rows, err := r.db.Query(ctx, query, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotations := []*models.Quotation{}
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, q)
	}
	return quotations, rows.Err()
}

func (r *quotationRepo) MarkApproved(ctx context.Context, id uuid.UUID, approvedBy *string, approvedAt time.Time) (bool, error) {
	query := `
		UPDATE quotations
		SET status = 'approved', approved_by = $2, approved_at = $3
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id, approvedBy, approvedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
