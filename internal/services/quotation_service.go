package services

import (
	"context"
	"strings"
	"time"

	"repairdesk/internal/caching"
	"repairdesk/internal/common"
	"repairdesk/internal/models"
	"repairdesk/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const purchaseOrderCacheTTL = 24 * time.Hour

// QuotationService turns supplier quotations into purchase orders.
type QuotationService interface {
	Submit(ctx context.Context, q *models.Quotation) error
	Get(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	List(ctx context.Context, status *models.QuotationStatus, limit, offset int) ([]*models.Quotation, error)
	// Approve creates the purchase order and marks the quotation approved in
	// one transaction.
	Approve(ctx context.Context, req models.ApprovalRequest) (*models.ApprovalResult, error)
	// ConfirmApproval is the second call of the legacy two-step client. It
	// has no effect and returns the existing order once the quotation is
	// approved.
	ConfirmApproval(ctx context.Context, id uuid.UUID) (*models.ApprovalResult, error)
	GetPurchaseOrder(ctx context.Context, quotationID uuid.UUID) (*models.PurchaseOrder, error)
}

type quotationService struct {
	store    repositories.Store
	cache    caching.CacheService
	logger   *zap.Logger
	now      Clock
	location *time.Location
	timeout  time.Duration
}

func NewQuotationService(store repositories.Store, cache caching.CacheService, logger *zap.Logger, clock Clock, location *time.Location, timeout time.Duration) QuotationService {
	if location == nil {
		location = time.UTC
	}
	return &quotationService{
		store:    store,
		cache:    cache,
		logger:   logger,
		now:      clockOrNow(clock),
		location: location,
		timeout:  timeout,
	}
}

var quotationTransitions = map[models.QuotationStatus][]models.QuotationStatus{
	models.QuotationStatusPending:  {models.QuotationStatusApproved},
	models.QuotationStatusApproved: {},
}

func canTransition(from, to models.QuotationStatus) bool {
	for _, s := range quotationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *quotationService) Submit(ctx context.Context, q *models.Quotation) error {
	if q.SupplierID == uuid.Nil {
		return common.ValidationError("supplier_id", "is required")
	}
	if q.ItemID == uuid.Nil {
		return common.ValidationError("item_id", "is required")
	}
	if err := validateUnitPrice("unit_price", q.UnitPrice); err != nil {
		return err
	}
	if err := common.ValidateOptionalString(q.Notes, "notes", 2000); err != nil {
		return common.ValidationError("notes", err.Error())
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	q.Status = models.QuotationStatusPending
	q.SubmittedAt = s.now().UTC()
	q.ApprovedBy = nil
	q.ApprovedAt = nil

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Quotations().Create(ctx, q); err != nil {
		return common.ClassifyStorageError("submit quotation", "quotation", q.ID.String(), err)
	}
	s.logger.Info("quotation submitted", zap.String("quotation_id", q.ID.String()), zap.String("supplier_id", q.SupplierID.String()))
	return nil
}

func (s *quotationService) Get(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	q, err := s.store.Quotations().GetByID(ctx, id)
	if err != nil {
		return nil, common.ClassifyStorageError("get quotation", "quotation", id.String(), err)
	}
	return q, nil
}

func (s *quotationService) List(ctx context.Context, status *models.QuotationStatus, limit, offset int) ([]*models.Quotation, error) {
	if status != nil && !status.Valid() {
		return nil, common.ValidationError("status", "must be pending or approved")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	list, err := s.store.Quotations().List(ctx, status, limit, offset)
	if err != nil {
		return nil, common.ClassifyStorageError("list quotations", "quotation", "", err)
	}
	return list, nil
}

// earliestNeedBy is the first calendar day after now in the service location.
func (s *quotationService) earliestNeedBy() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, s.location)
}

func (s *quotationService) validateApproval(req models.ApprovalRequest) (time.Time, error) {
	if req.QuotationID == uuid.Nil {
		return time.Time{}, common.ValidationError("quotation_id", "is required")
	}
	if err := validateQuantity("quantity", req.Quantity); err != nil {
		return time.Time{}, err
	}
	if req.NeedByDate.IsZero() {
		return time.Time{}, common.ValidationError("need_by_date", "is required")
	}
	d := req.NeedByDate.In(s.location)
	needBy := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.location)
	if needBy.Before(s.earliestNeedBy()) {
		return time.Time{}, common.ValidationError("need_by_date", "must be tomorrow or later")
	}
	return needBy, nil
}

func (s *quotationService) Approve(ctx context.Context, req models.ApprovalRequest) (*models.ApprovalResult, error) {
	needBy, err := s.validateApproval(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	id := req.QuotationID.String()
	actor := common.ActorFromContext(ctx)
	approvedAt := s.now().UTC()
	var result *models.ApprovalResult

	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		q, err := tx.Quotations().GetForUpdate(ctx, req.QuotationID)
		if err != nil {
			return err
		}
		if !canTransition(q.Status, models.QuotationStatusApproved) {
			return common.ConflictError("quotation", id, "already approved")
		}

		po := &models.PurchaseOrder{
			ID:           uuid.New(),
			QuotationID:  q.ID,
			SupplierID:   q.SupplierID,
			ItemID:       q.ItemID,
			Quantity:     req.Quantity,
			UnitPrice:    q.UnitPrice,
			NeedByDate:   needBy,
			SpecialNotes: common.StringPtr(req.SpecialNotes),
			CreatedBy:    actor,
			CreatedAt:    approvedAt,
		}
		created, err := tx.PurchaseOrders().Create(ctx, po)
		if err != nil {
			return err
		}
		if !created {
			return common.ConflictError("purchase_order", id, "order already exists for quotation")
		}

		changed, err := tx.Quotations().MarkApproved(ctx, q.ID, actor, approvedAt)
		if err != nil {
			return err
		}
		if !changed {
			return common.ConflictError("quotation", id, "already approved")
		}

		q.Status = models.QuotationStatusApproved
		q.ApprovedBy = actor
		q.ApprovedAt = &approvedAt
		result = &models.ApprovalResult{Quotation: q, PurchaseOrder: po}
		return nil
	})
	if err != nil {
		return nil, common.ClassifyStorageError("approve quotation", "quotation", id, err)
	}

	if err := s.cache.SetPurchaseOrder(ctx, result.PurchaseOrder, purchaseOrderCacheTTL); err != nil {
		s.logger.Warn("failed to cache purchase order", zap.String("quotation_id", id), zap.Error(err))
	}
	s.logger.Info("quotation approved",
		zap.String("quotation_id", id),
		zap.String("purchase_order_id", result.PurchaseOrder.ID.String()),
		zap.Int("quantity", req.Quantity),
		zap.String("total", result.PurchaseOrder.TotalAmount().StringFixed(2)),
	)
	return result, nil
}

func (s *quotationService) ConfirmApproval(ctx context.Context, id uuid.UUID) (*models.ApprovalResult, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != models.QuotationStatusApproved {
		return nil, common.ValidationError("quotation", "approval requires order details, use the approve endpoint")
	}
	po, err := s.GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ApprovalResult{Quotation: q, PurchaseOrder: po}, nil
}

func (s *quotationService) GetPurchaseOrder(ctx context.Context, quotationID uuid.UUID) (*models.PurchaseOrder, error) {
	ctx, cancel := withStorageTimeout(ctx, s.timeout)
	defer cancel()

	cached, err := s.cache.GetPurchaseOrder(ctx, quotationID)
	if err != nil {
		s.logger.Warn("purchase order cache read failed", zap.String("quotation_id", quotationID.String()), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	po, err := s.store.PurchaseOrders().GetByQuotationID(ctx, quotationID)
	if err != nil {
		return nil, common.ClassifyStorageError("get purchase order", "purchase_order", quotationID.String(), err)
	}
	if err := s.cache.SetPurchaseOrder(ctx, po, purchaseOrderCacheTTL); err != nil {
		s.logger.Warn("failed to cache purchase order", zap.String("quotation_id", quotationID.String()), zap.Error(err))
	}
	return po, nil
}

// ParseQuotationStatus reads a status filter; blank means no filter.
func ParseQuotationStatus(raw string) (*models.QuotationStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil, nil
	}
	status := models.QuotationStatus(raw)
	if !status.Valid() {
		return nil, common.ValidationError("status", "must be pending or approved")
	}
	return &status, nil
}
