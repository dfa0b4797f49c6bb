package handlers

import (
	"context"
	"io"

	"repairdesk/internal/jobs"
	"repairdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockBatchService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockBatchService) AddBatch(ctx context.Context, batch *models.InventoryBatch) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *MockBatchService) ListBatchesForItem(ctx context.Context, itemID uuid.UUID) (*models.ItemBatches, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemBatches), args.Error(1)
}

func (m *MockBatchService) GetRemaining(ctx context.Context, itemID uuid.UUID, batchNo string) (int, error) {
	args := m.Called(ctx, itemID, batchNo)
	return args.Int(0), args.Error(1)
}

func (m *MockBatchService) LowStockItems(ctx context.Context) ([]*models.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordUsage(ctx context.Context, jobID, itemID uuid.UUID, batchNo string, quantity int) (*models.UsedInventory, error) {
	args := m.Called(ctx, jobID, itemID, batchNo, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsedInventory), args.Error(1)
}

func (m *MockLedgerService) UpdateUsage(ctx context.Context, jobID, itemID uuid.UUID, batchNo string, newQuantity int) (*models.UsedInventory, error) {
	args := m.Called(ctx, jobID, itemID, batchNo, newQuantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsedInventory), args.Error(1)
}

func (m *MockLedgerService) DeleteUsage(ctx context.Context, jobID, itemID uuid.UUID, batchNo string) error {
	return m.Called(ctx, jobID, itemID, batchNo).Error(0)
}

func (m *MockLedgerService) GetUsageForJob(ctx context.Context, jobID uuid.UUID) (*models.JobUsage, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobUsage), args.Error(1)
}

type MockQuotationService struct {
	mock.Mock
}

func (m *MockQuotationService) Submit(ctx context.Context, q *models.Quotation) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuotationService) Get(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quotation), args.Error(1)
}

func (m *MockQuotationService) List(ctx context.Context, status *models.QuotationStatus, limit, offset int) ([]*models.Quotation, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quotation), args.Error(1)
}

func (m *MockQuotationService) Approve(ctx context.Context, req models.ApprovalRequest) (*models.ApprovalResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalResult), args.Error(1)
}

func (m *MockQuotationService) ConfirmApproval(ctx context.Context, id uuid.UUID) (*models.ApprovalResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalResult), args.Error(1)
}

func (m *MockQuotationService) GetPurchaseOrder(ctx context.Context, quotationID uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

type MockWarrantyService struct {
	mock.Mock
}

func (m *MockWarrantyService) GetJobWarranty(ctx context.Context, jobID uuid.UUID) (*models.JobWarranty, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobWarranty), args.Error(1)
}

func (m *MockWarrantyService) ListEligibleJobs(ctx context.Context, search string) ([]*models.JobWarranty, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.JobWarranty), args.Error(1)
}

func (m *MockWarrantyService) ClaimWarranty(ctx context.Context, jobID uuid.UUID, issueDescription string) (*models.WarrantyClaim, error) {
	args := m.Called(ctx, jobID, issueDescription)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarrantyClaim), args.Error(1)
}

func (m *MockWarrantyService) GetClaim(ctx context.Context, jobID uuid.UUID) (*models.WarrantyClaim, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WarrantyClaim), args.Error(1)
}

func (m *MockWarrantyService) AttachEvidence(ctx context.Context, jobID uuid.UUID, fileName, contentType string, body io.Reader, size int64) (*models.ClaimEvidence, error) {
	args := m.Called(ctx, jobID, fileName, contentType, body, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClaimEvidence), args.Error(1)
}

func (m *MockWarrantyService) ListEvidence(ctx context.Context, jobID uuid.UUID) ([]*models.ClaimEvidence, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ClaimEvidence), args.Error(1)
}

type MockLowStockRunner struct {
	mock.Mock
}

func (m *MockLowStockRunner) Run(ctx context.Context) (*jobs.LowStockReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.LowStockReport), args.Error(1)
}
