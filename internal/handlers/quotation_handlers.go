package handlers

import (
	"net/http"
	"time"

	"repairdesk/internal/common"
	"repairdesk/internal/models"
	"repairdesk/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuotationHandlers serves supplier quotations and the purchase orders
// created when they are approved
type QuotationHandlers struct {
	quotations services.QuotationService
	location   *time.Location
	logger     *zap.Logger
}

func NewQuotationHandlers(quotations services.QuotationService, location *time.Location, logger *zap.Logger) *QuotationHandlers {
	if location == nil {
		location = time.UTC
	}
	return &QuotationHandlers{quotations: quotations, location: location, logger: logger}
}

type SubmitQuotationRequest struct {
	SupplierID string          `json:"supplier_id"`
	ItemID     string          `json:"item_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Notes      string          `json:"notes"`
}

// ApproveQuotationRequest carries the order details entered at approval
type ApproveQuotationRequest struct {
	QuotationID  string `json:"quotation_id"`
	Quantity     int    `json:"quantity"`
	NeedByDate   string `json:"need_by_date"`
	SpecialNotes string `json:"special_notes"`
}

// ListQuotationsRequest represents query parameters for listing quotations
type ListQuotationsRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// AddQuotation records a supplier's priced offer
func (h *QuotationHandlers) AddQuotation(c echo.Context) error {
	var req SubmitQuotationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	supplierID, err := common.ValidateUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return common.SendValidationError(c, "supplier_id", err.Error())
	}
	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}

	q := &models.Quotation{
		SupplierID: supplierID,
		ItemID:     itemID,
		UnitPrice:  req.UnitPrice,
		Notes:      common.StringPtr(req.Notes),
	}
	if err := h.quotations.Submit(c.Request().Context(), q); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, q)
}

// ListQuotations handles getting a page of quotations, optionally by status
func (h *QuotationHandlers) ListQuotations(c echo.Context) error {
	var req ListQuotationsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	// Set defaults
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	status, err := services.ParseQuotationStatus(req.Status)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	quotations, err := h.quotations.List(c.Request().Context(), status, req.Limit, req.Offset)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"quotations": quotations,
		"limit":      req.Limit,
		"offset":     req.Offset,
	})
}

// GetQuotation returns a single quotation
func (h *QuotationHandlers) GetQuotation(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	q, err := h.quotations.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, q)
}

// ApproveQuotation creates the purchase order and approves the quotation in
// a single step
func (h *QuotationHandlers) ApproveQuotation(c echo.Context) error {
	var req ApproveQuotationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	quotationID, err := common.ValidateUUID(req.QuotationID, "quotation_id")
	if err != nil {
		return common.SendValidationError(c, "quotation_id", err.Error())
	}
	needBy, err := parseDate(req.NeedByDate, h.location)
	if err != nil {
		return common.SendValidationError(c, "need_by_date", err.Error())
	}

	result, err := h.quotations.Approve(c.Request().Context(), models.ApprovalRequest{
		QuotationID:  quotationID,
		Quantity:     req.Quantity,
		NeedByDate:   needBy,
		SpecialNotes: req.SpecialNotes,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// ConfirmApproval is kept for clients that still send the second approval
// call; it reports the already-created order
func (h *QuotationHandlers) ConfirmApproval(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	result, err := h.quotations.ConfirmApproval(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetPurchaseOrder returns the order created for a quotation
func (h *QuotationHandlers) GetPurchaseOrder(c echo.Context) error {
	quotationID, err := pathUUID(c, "quotation_id")
	if err != nil {
		return common.SendValidationError(c, "quotation_id", err.Error())
	}

	po, err := h.quotations.GetPurchaseOrder(c.Request().Context(), quotationID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"purchase_order": po,
		"total_amount":   po.TotalAmount().StringFixed(2),
	})
}
