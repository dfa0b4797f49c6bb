package jobs

import (
	"context"
	"time"

	"repairdesk/internal/caching"
	"repairdesk/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lowStockLockKey = "low-stock-check"
	lowStockLockTTL = 5 * time.Minute
)

// LowStockAlert is an item whose available quantity has dropped to its
// out-of-stock threshold or below.
type LowStockAlert struct {
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Available int       `json:"available_quantity"`
	Threshold int       `json:"out_of_stock_threshold"`
}

// LowStockReport is the outcome of one check. Skipped is set when another
// instance held the lock.
type LowStockReport struct {
	CheckedAt time.Time       `json:"checked_at"`
	Skipped   bool            `json:"skipped"`
	Alerts    []LowStockAlert `json:"alerts"`
}

type LowStockAlertJob struct {
	batches services.BatchService
	cache   caching.CacheService
	logger  *zap.Logger
	now     services.Clock
}

func NewLowStockAlertJob(batches services.BatchService, cache caching.CacheService, logger *zap.Logger, clock services.Clock) *LowStockAlertJob {
	if clock == nil {
		clock = time.Now
	}
	return &LowStockAlertJob{
		batches: batches,
		cache:   cache,
		logger:  logger.With(zap.String("job", "low-stock-alerts")),
		now:     clock,
	}
}

// Run checks every item once. A cache outage does not stop the check; it
// only loses the cross-instance lock.
func (j *LowStockAlertJob) Run(ctx context.Context) (*LowStockReport, error) {
	report := &LowStockReport{CheckedAt: j.now().UTC(), Alerts: []LowStockAlert{}}

	owner := uuid.NewString()
	acquired, err := j.cache.AcquireLock(ctx, lowStockLockKey, owner, lowStockLockTTL)
	switch {
	case err != nil:
		j.logger.Warn("low stock lock unavailable, checking anyway", zap.Error(err))
	case !acquired:
		j.logger.Info("low stock check already running elsewhere")
		report.Skipped = true
		return report, nil
	default:
		defer func() {
			if err := j.cache.ReleaseLock(context.WithoutCancel(ctx), lowStockLockKey, owner); err != nil {
				j.logger.Warn("failed to release low stock lock", zap.Error(err))
			}
		}()
	}

	items, err := j.batches.LowStockItems(ctx)
	if err != nil {
		j.logger.Error("low stock check failed", zap.Error(err))
		return nil, err
	}

	for _, item := range items {
		alert := LowStockAlert{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Available: item.AvailableQuantity,
			Threshold: item.OutOfStockThreshold,
		}
		report.Alerts = append(report.Alerts, alert)
		j.logger.Warn("item at or below out-of-stock threshold",
			zap.String("item_id", alert.ItemID.String()),
			zap.String("item_name", alert.ItemName),
			zap.Int("available_quantity", alert.Available),
			zap.Int("threshold", alert.Threshold),
		)
	}
	if len(report.Alerts) == 0 {
		j.logger.Debug("no low stock items")
	}
	return report, nil
}
