package handlers

import (
	"net/http"

	"repairdesk/internal/common"
	"repairdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UsedInventoryHandlers serves the per-job consumption ledger
type UsedInventoryHandlers struct {
	ledger services.LedgerService
	logger *zap.Logger
}

func NewUsedInventoryHandlers(ledger services.LedgerService, logger *zap.Logger) *UsedInventoryHandlers {
	return &UsedInventoryHandlers{ledger: ledger, logger: logger}
}

type RecordUsageRequest struct {
	JobID        string `json:"job_id"`
	ItemID       string `json:"item_id"`
	BatchNo      string `json:"batch_no"`
	QuantityUsed int    `json:"quantity_used"`
}

type UpdateUsageRequest struct {
	QuantityUsed int `json:"quantity_used"`
}

// AddUsedInventory records stock consumed by a job
func (h *UsedInventoryHandlers) AddUsedInventory(c echo.Context) error {
	var req RecordUsageRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	jobID, err := common.ValidateUUID(req.JobID, "job_id")
	if err != nil {
		return common.SendValidationError(c, "job_id", err.Error())
	}
	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}

	record, err := h.ledger.RecordUsage(c.Request().Context(), jobID, itemID, req.BatchNo, req.QuantityUsed)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, record)
}

// GetUsedInventory returns a job's ledger and its total
func (h *UsedInventoryHandlers) GetUsedInventory(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return common.SendValidationError(c, "job_id", err.Error())
	}

	usage, err := h.ledger.GetUsageForJob(c.Request().Context(), jobID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, usage)
}

// UpdateUsedInventory changes the quantity of an existing record
func (h *UsedInventoryHandlers) UpdateUsedInventory(c echo.Context) error {
	jobID, itemID, ok, err := h.usageKey(c)
	if !ok {
		return err
	}
	var req UpdateUsageRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	record, err := h.ledger.UpdateUsage(c.Request().Context(), jobID, itemID, c.Param("batch_no"), req.QuantityUsed)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, record)
}

// DeleteUsedInventory removes a record and returns its stock to the batch
func (h *UsedInventoryHandlers) DeleteUsedInventory(c echo.Context) error {
	jobID, itemID, ok, err := h.usageKey(c)
	if !ok {
		return err
	}

	if err := h.ledger.DeleteUsage(c.Request().Context(), jobID, itemID, c.Param("batch_no")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// usageKey parses the job and item path params. When ok is false the
// validation response has already been written and err is its result.
func (h *UsedInventoryHandlers) usageKey(c echo.Context) (jobID, itemID uuid.UUID, ok bool, err error) {
	jobID, perr := pathUUID(c, "job_id")
	if perr != nil {
		return uuid.Nil, uuid.Nil, false, common.SendValidationError(c, "job_id", perr.Error())
	}
	itemID, perr = pathUUID(c, "item_id")
	if perr != nil {
		return uuid.Nil, uuid.Nil, false, common.SendValidationError(c, "item_id", perr.Error())
	}
	return jobID, itemID, true, nil
}
