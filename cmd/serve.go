package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"repairdesk/internal/handlers"
	"repairdesk/internal/jobs/background"
	"repairdesk/internal/middleware"
)

func newServeCommand() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the background scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			a, err := newApp(cmd.Context(), cfg, log, appOptions{withCache: true, withObjects: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if migrate {
				if err := a.Migrate(cmd.Context()); err != nil {
					return err
				}
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the database schema before serving")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	log := a.logger

	jwtSecret := a.cfg.Auth.JWTSecret
	if jwtSecret == "" && a.cfg.Auth.JWKSURL == "" {
		if a.cfg.IsProduction() {
			return errors.New("JWT_SECRET or JWKS_URL is required in production")
		}
		jwtSecret = random.String(32)
		log.Warn("using generated JWT secret", zap.String("secret", jwtSecret))
	}
	auth, stopJWKS, err := middleware.NewJWTMiddleware(middleware.JWTConfig{
		Secret:  jwtSecret,
		JWKSURL: a.cfg.Auth.JWKSURL,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("failed to configure authentication: %w", err)
	}
	defer stopJWKS()

	scheduler, err := background.NewJobScheduler(a.lowStock, a.cfg.Jobs.LowStockInterval, a.cfg.Location(), log)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	handlers.RegisterRoutes(e, handlers.Handlers{
		Inventory:     handlers.NewInventoryHandlers(a.batches, a.cfg.Location(), log),
		UsedInventory: handlers.NewUsedInventoryHandlers(a.ledger, log),
		Quotations:    handlers.NewQuotationHandlers(a.quotations, a.cfg.Location(), log),
		Jobs:          handlers.NewJobHandlers(a.warranty, a.lowStock, log),
		Warranty:      handlers.NewWarrantyHandlers(a.warranty, log),
		Health:        handlers.NewHealthHandlers(a.criticalChecks(), a.optionalChecks(), version, log),
	}, auth)

	scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", a.cfg.Port)
		log.Info("server starting", zap.String("addr", addr), zap.String("env", a.cfg.Env), zap.String("version", version))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-serverErr:
		if runErr != nil {
			log.Error("server failed", zap.Error(runErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := scheduler.Stop(); err != nil {
		log.Error("scheduler shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
	return runErr
}

func (a *app) criticalChecks() map[string]handlers.HealthCheckFunc {
	return map[string]handlers.HealthCheckFunc{
		"database": a.store.Ping,
	}
}

func (a *app) optionalChecks() map[string]handlers.HealthCheckFunc {
	bucket := a.cfg.Minio.EvidenceBucket
	return map[string]handlers.HealthCheckFunc{
		"object_storage": func(ctx context.Context) error {
			found, err := a.objects.BucketExists(ctx, bucket)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("bucket %q does not exist", bucket)
			}
			return nil
		},
		// cache reads and the low-stock lease fall back when redis is down
		"redis": a.cache.Ping,
	}
}
