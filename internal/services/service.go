package services

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"repairdesk/internal/common"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// DefaultStorageTimeout bounds every storage call made by a service method.
const DefaultStorageTimeout = 5 * time.Second

// Quantities are stored as INTEGER and prices as NUMERIC(12,2).
const (
	maxQuantity = math.MaxInt32
	priceScale  = 2
)

var maxUnitPrice = decimal.New(1, 12-priceScale)

func withStorageTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

func validateQuantity(field string, q int) error {
	if q <= 0 {
		return common.ValidationError(field, "must be positive")
	}
	if q > maxQuantity {
		return common.ValidationError(field, "is too large")
	}
	return nil
}

// validateUnitPrice rejects prices the price columns would round or overflow.
func validateUnitPrice(field string, p decimal.Decimal) error {
	if p.IsNegative() {
		return common.ValidationError(field, "must not be negative")
	}
	if !p.Equal(p.Truncate(priceScale)) {
		return common.ValidationError(field, "must have at most 2 decimal places")
	}
	if p.GreaterThanOrEqual(maxUnitPrice) {
		return common.ValidationError(field, "is too large")
	}
	return nil
}
