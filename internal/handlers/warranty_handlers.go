package handlers

import (
	"net/http"

	"repairdesk/internal/common"
	"repairdesk/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WarrantyHandlers serves warranty claims and their evidence files
type WarrantyHandlers struct {
	warranty services.WarrantyService
	logger   *zap.Logger
}

func NewWarrantyHandlers(warranty services.WarrantyService, logger *zap.Logger) *WarrantyHandlers {
	return &WarrantyHandlers{warranty: warranty, logger: logger}
}

type ClaimWarrantyRequest struct {
	IssueDescription string `json:"issue_description"`
}

// ClaimWarranty records the single warranty claim of a job
func (h *WarrantyHandlers) ClaimWarranty(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return common.SendValidationError(c, "job_id", err.Error())
	}
	var req ClaimWarrantyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	claim, err := h.warranty.ClaimWarranty(c.Request().Context(), jobID, req.IssueDescription)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, claim)
}

// GetClaim returns the recorded claim of a job
func (h *WarrantyHandlers) GetClaim(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return common.SendValidationError(c, "job_id", err.Error())
	}

	claim, err := h.warranty.GetClaim(c.Request().Context(), jobID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, claim)
}

// UploadEvidence attaches the multipart "file" to the job's claim
func (h *WarrantyHandlers) UploadEvidence(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return common.SendValidationError(c, "job_id", err.Error())
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return common.SendValidationError(c, "file", "is required")
	}
	src, err := fh.Open()
	if err != nil {
		return common.SendClientError(c, "Unable to read uploaded file")
	}
	defer src.Close()

	evidence, err := h.warranty.AttachEvidence(c.Request().Context(), jobID, fh.Filename, fh.Header.Get(echo.HeaderContentType), src, fh.Size)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, evidence)
}

// ListEvidence returns presigned links to the claim's files
func (h *WarrantyHandlers) ListEvidence(c echo.Context) error {
	jobID, err := pathUUID(c, "job_id")
	if err != nil {
		return common.SendValidationError(c, "job_id", err.Error())
	}

	evidence, err := h.warranty.ListEvidence(c.Request().Context(), jobID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"job_id":   jobID,
		"evidence": evidence,
	})
}
