package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheckFunc probes one dependency.
type HealthCheckFunc func(ctx context.Context) error

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	critical map[string]HealthCheckFunc
	optional map[string]HealthCheckFunc
	version  string
	started  time.Time
	logger   *zap.Logger
}

// NewHealthHandlers creates a new health handlers instance. Critical checks
// gate readiness; optional ones only degrade the detailed report.
func NewHealthHandlers(critical, optional map[string]HealthCheckFunc, version string, logger *zap.Logger) *HealthHandlers {
	return &HealthHandlers{
		critical: critical,
		optional: optional,
		version:  version,
		started:  time.Now(),
		logger:   logger,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

// runChecks probes every dependency in parallel and returns per-service
// results plus the first error.
func (h *HealthHandlers) runChecks(ctx context.Context, checks map[string]HealthCheckFunc) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var mu sync.Mutex
	results := make(map[string]string, len(checks))
	var g errgroup.Group
	for name, check := range checks {
		g.Go(func() error {
			err := check(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[name] = "unhealthy"
				h.logger.Warn("health check failed", zap.String("service", name), zap.Error(err))
				return err
			}
			results[name] = "healthy"
			return nil
		})
	}
	return results, g.Wait()
}

// HealthCheck performs comprehensive health checks
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	all := make(map[string]HealthCheckFunc, len(h.critical)+len(h.optional))
	for name, check := range h.critical {
		all[name] = check
	}
	for name, check := range h.optional {
		all[name] = check
	}
	results, err := h.runChecks(ctx, all)
	health.Services = results

	statusCode := http.StatusOK
	if err != nil {
		health.Status = "degraded"
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	results, err := h.runChecks(c.Request().Context(), h.critical)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "not_ready",
			"message":  "Critical services unavailable",
			"services": results,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"message":  "All systems operational",
		"services": results,
	})
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
