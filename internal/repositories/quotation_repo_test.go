package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"repairdesk/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type QuotationRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    QuotationRepository
	poRepo  PurchaseOrderRepository
	context context.Context
}

func (suite *QuotationRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewQuotationRepo(mock)
	suite.poRepo = NewPurchaseOrderRepo(mock)
	suite.context = context.Background()
}

func (suite *QuotationRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestQuotationRepoTestSuite(t *testing.T) {
	suite.Run(t, new(QuotationRepoTestSuite))
}

func quotationRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "supplier_id", "item_id", "unit_price", "notes", "submitted_at", "status", "approved_by", "approved_at"})
}

func (suite *QuotationRepoTestSuite) TestCreate() {
	q := &models.Quotation{
		ID:          uuid.New(),
		SupplierID:  uuid.New(),
		ItemID:      uuid.New(),
		UnitPrice:   decimal.RequireFromString("99.90"),
		SubmittedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Status:      models.QuotationStatusPending,
	}
	suite.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO quotations (id, supplier_id, item_id, unit_price, notes, submitted_at, status)`)).
		WithArgs(q.ID, q.SupplierID, q.ItemID, q.UnitPrice, q.Notes, q.SubmittedAt, q.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.Create(suite.context, q))
}

func (suite *QuotationRepoTestSuite) TestGetForUpdate() {
	id := uuid.New()
	submitted := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM quotations WHERE id = $1 FOR UPDATE`)).
		WithArgs(id).
		WillReturnRows(quotationRows().AddRow(id, uuid.New(), uuid.New(), "10.00", nil, submitted, "pending", nil, nil))

	q, err := suite.repo.GetForUpdate(suite.context, id)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.QuotationStatusPending, q.Status)
	assert.Nil(suite.T(), q.ApprovedAt)
}

func (suite *QuotationRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM quotations WHERE id = $1`)).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func (suite *QuotationRepoTestSuite) TestList_StatusFilter() {
	status := models.QuotationStatusApproved
	filter := "approved"
	approvedAt := time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC)
	approver := "mgr-1"
	suite.mock.ExpectQuery(regexp.QuoteMeta(`WHERE ($1::text IS NULL OR status = $1)`)).
		WithArgs(&filter, 20, 0).
		WillReturnRows(quotationRows().AddRow(uuid.New(), uuid.New(), uuid.New(), "4.00", nil, approvedAt, "approved", &approver, &approvedAt))

	list, err := suite.repo.List(suite.context, &status, 20, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), "mgr-1", *list[0].ApprovedBy)
}

func (suite *QuotationRepoTestSuite) TestMarkApproved_OnlyFromPending() {
	id := uuid.New()
	at := time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC)
	suite.mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $1 AND status = 'pending'`)).
		WithArgs(id, (*string)(nil), at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	changed, err := suite.repo.MarkApproved(suite.context, id, nil, at)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), changed)
}

func (suite *QuotationRepoTestSuite) TestPurchaseOrderCreate_IdempotentOnQuotation() {
	po := &models.PurchaseOrder{
		ID:          uuid.New(),
		QuotationID: uuid.New(),
		SupplierID:  uuid.New(),
		ItemID:      uuid.New(),
		Quantity:    10,
		UnitPrice:   decimal.RequireFromString("4.00"),
		NeedByDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC),
	}
	insert := regexp.QuoteMeta(`ON CONFLICT (quotation_id) DO NOTHING`)
	suite.mock.ExpectExec(insert).
		WithArgs(po.ID, po.QuotationID, po.SupplierID, po.ItemID, 10, po.UnitPrice, po.NeedByDate, po.SpecialNotes, po.CreatedBy, po.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(insert).
		WithArgs(po.ID, po.QuotationID, po.SupplierID, po.ItemID, 10, po.UnitPrice, po.NeedByDate, po.SpecialNotes, po.CreatedBy, po.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := suite.poRepo.Create(suite.context, po)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), created)

	created, err = suite.poRepo.Create(suite.context, po)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), created)
}

func (suite *QuotationRepoTestSuite) TestPurchaseOrderGetByQuotationID() {
	qid := uuid.New()
	need := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	notes := "deliver to bay 2"
	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM purchase_orders WHERE quotation_id = $1`)).
		WithArgs(qid).
		WillReturnRows(pgxmock.NewRows([]string{"id", "quotation_id", "supplier_id", "item_id", "quantity", "unit_price", "need_by_date", "special_notes", "created_by", "created_at"}).
			AddRow(uuid.New(), qid, uuid.New(), uuid.New(), 10, "4.00", need, &notes, nil, need))

	po, err := suite.poRepo.GetByQuotationID(suite.context, qid)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "40", po.TotalAmount().String())
	assert.Equal(suite.T(), notes, *po.SpecialNotes)
}
