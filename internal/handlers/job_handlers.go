package handlers

import (
	"context"
	"net/http"

	"repairdesk/internal/common"
	"repairdesk/internal/jobs"
	"repairdesk/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LowStockRunner runs the low-stock check on demand.
type LowStockRunner interface {
	Run(ctx context.Context) (*jobs.LowStockReport, error)
}

// JobHandlers serves repair jobs' warranty views and manual job triggers
type JobHandlers struct {
	warranty services.WarrantyService
	lowStock LowStockRunner
	logger   *zap.Logger
}

func NewJobHandlers(warranty services.WarrantyService, lowStock LowStockRunner, logger *zap.Logger) *JobHandlers {
	return &JobHandlers{
		warranty: warranty,
		lowStock: lowStock,
		logger:   logger,
	}
}

// WarrantyEligibleJobs lists jobs with warranty metadata, filtered by the
// optional search query
func (h *JobHandlers) WarrantyEligibleJobs(c echo.Context) error {
	search := c.QueryParam("search")

	eligible, err := h.warranty.ListEligibleJobs(c.Request().Context(), search)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"jobs":   eligible,
		"count":  len(eligible),
		"search": search,
	})
}

// GetJobWarranty returns a job with its warranty status derived now
func (h *JobHandlers) GetJobWarranty(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return common.SendValidationError(c, "job_id", err.Error())
	}

	jw, err := h.warranty.GetJobWarranty(c.Request().Context(), jobID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, jw)
}

// TriggerLowStockCheck runs the low-stock alert job synchronously
func (h *JobHandlers) TriggerLowStockCheck(c echo.Context) error {
	report, err := h.lowStock.Run(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, report)
}
