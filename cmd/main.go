package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"repairdesk/internal/config"
	"repairdesk/internal/logger"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "repairdesk",
		Short:         "Repair shop back office: stock, quotations and warranty claims",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand(), newLowStockCommand())
	return root
}

// bootstrap loads configuration and builds the process logger shared by
// every subcommand.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			app, err := newApp(cmd.Context(), cfg, log, appOptions{})
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Migrate(cmd.Context())
		},
	}
}

func newLowStockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lowstock",
		Short: "Run the low stock check once and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			app, err := newApp(cmd.Context(), cfg, log, appOptions{withCache: true})
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.lowStock.Run(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if report.Skipped {
				fmt.Fprintln(out, "check skipped: another instance holds the lock")
				return nil
			}
			fmt.Fprintf(out, "checked at %s, %d item(s) low\n", report.CheckedAt.Format("2006-01-02 15:04:05 MST"), len(report.Alerts))
			for _, a := range report.Alerts {
				fmt.Fprintf(out, "  %s  %-30s available=%d threshold=%d\n", a.ItemID, a.ItemName, a.Available, a.Threshold)
			}
			return nil
		},
	}
}
