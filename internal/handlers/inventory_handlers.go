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

// InventoryHandlers serves inventory items and their batches
type InventoryHandlers struct {
	batchService services.BatchService
	location     *time.Location
	logger       *zap.Logger
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(batchService services.BatchService, location *time.Location, logger *zap.Logger) *InventoryHandlers {
	if location == nil {
		location = time.UTC
	}
	return &InventoryHandlers{
		batchService: batchService,
		location:     location,
		logger:       logger,
	}
}

// CreateItemRequest represents the inventory item creation payload
type CreateItemRequest struct {
	Name                string `json:"name"`
	OutOfStockThreshold int    `json:"out_of_stock_threshold"`
}

// AddInventory handles creating an inventory item
func (h *InventoryHandlers) AddInventory(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	item := &models.InventoryItem{
		Name:                req.Name,
		OutOfStockThreshold: req.OutOfStockThreshold,
	}
	if err := h.batchService.CreateItem(c.Request().Context(), item); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// GetInventory returns an item with its derived available quantity
func (h *InventoryHandlers) GetInventory(c echo.Context) error {
	itemID, err := pathUUID(c, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}

	item, err := h.batchService.GetItem(c.Request().Context(), itemID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, item)
}

// AddBatchRequest represents the batch creation payload
type AddBatchRequest struct {
	ItemID           string          `json:"item_id"`
	BatchNo          string          `json:"batch_no"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	OriginalQuantity int             `json:"original_quantity"`
	PurchaseDate     string          `json:"purchase_date"`
	SupplierID       string          `json:"supplier_id"`
}

// AddBatch handles registering a new priced batch for an item
func (h *InventoryHandlers) AddBatch(c echo.Context) error {
	var req AddBatchRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}
	supplierID, err := common.ValidateUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return common.SendValidationError(c, "supplier_id", err.Error())
	}
	purchaseDate, err := parseDate(req.PurchaseDate, h.location)
	if err != nil {
		return common.SendValidationError(c, "purchase_date", err.Error())
	}

	batch := &models.InventoryBatch{
		ItemID:           itemID,
		BatchNo:          req.BatchNo,
		UnitPrice:        req.UnitPrice,
		OriginalQuantity: req.OriginalQuantity,
		PurchaseDate:     purchaseDate,
		SupplierID:       supplierID,
	}
	if err := h.batchService.AddBatch(c.Request().Context(), batch); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, batch)
}

// GetInventoryItemBatch lists every batch of an item
func (h *InventoryHandlers) GetInventoryItemBatch(c echo.Context) error {
	itemID, err := pathUUID(c, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}

	result, err := h.batchService.ListBatchesForItem(c.Request().Context(), itemID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, result)
}
