package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"repairdesk/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const retryAfter = 5 * time.Second

// respondError translates a service error into the JSON error envelope. The
// outermost DomainError decides the status.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	var de *common.DomainError
	if !errors.As(err, &de) {
		logger.Error("unhandled service error", zap.String("route", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, common.CreateErrorResponse("INTERNAL_ERROR", "Internal server error", nil))
	}

	switch de.Kind {
	case common.ErrValidation:
		return common.SendValidationError(c, de.Field, de.Message)
	case common.ErrNotFound:
		return c.JSON(http.StatusNotFound, common.CreateErrorResponse("NOT_FOUND", de.Error(), entityDetails(de)))
	case common.ErrInsufficientStock:
		return c.JSON(http.StatusUnprocessableEntity, common.CreateErrorResponse("INSUFFICIENT_STOCK", de.Error(), entityDetails(de)))
	case common.ErrConflict:
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", de.Error(), entityDetails(de)))
	case common.ErrUnavailable:
		logger.Warn("storage unavailable", zap.String("route", c.Path()), zap.Error(err))
		c.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		return c.JSON(http.StatusServiceUnavailable, common.CreateErrorResponse("SERVICE_UNAVAILABLE", "Storage temporarily unavailable, retry later", nil))
	default:
		logger.Error("unmapped domain error", zap.String("route", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, common.CreateErrorResponse("INTERNAL_ERROR", "Internal server error", nil))
	}
}

func entityDetails(de *common.DomainError) map[string]string {
	if de.Entity == "" {
		return nil
	}
	details := map[string]string{"entity": de.Entity}
	if de.ID != "" {
		details["id"] = de.ID
	}
	return details
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

// parseDate accepts a calendar date (2006-01-02), read in loc, or an RFC3339
// timestamp.
func parseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("is required")
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New("must be a date (YYYY-MM-DD) or an RFC3339 timestamp")
	}
	return t, nil
}
