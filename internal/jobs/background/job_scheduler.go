package background

import (
	"context"
	"fmt"
	"time"

	"repairdesk/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobScheduler runs the periodic back-office jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	lowStock  *jobs.LowStockAlertJob
	logger    *zap.Logger
	jobs      map[string]gocron.Job
}

// NewJobScheduler creates the scheduler and registers the low-stock check
// every interval.
func NewJobScheduler(lowStock *jobs.LowStockAlertJob, interval time.Duration, location *time.Location, logger *zap.Logger) (*JobScheduler, error) {
	if location == nil {
		location = time.UTC
	}
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(location),
		gocron.WithLogger(gocronLogger{logger.Sugar()}),
		gocron.WithStopTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		lowStock:  lowStock,
		logger:    logger,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(interval); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	j, ok := js.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return j.RunNow()
}

func (js *JobScheduler) registerJobs(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid low stock interval %s", interval)
	}

	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.processLowStockAlerts),
		gocron.WithName(LowStockJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithError(func(jobID uuid.UUID, jobName string, err error) {
				js.logger.Error("background job failed", zap.String("job", jobName), zap.Error(err))
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create low stock job: %w", err)
	}
	js.jobs[LowStockJobName] = alertsJob
	return nil
}

const LowStockJobName = "low-stock-alerts"

func (js *JobScheduler) processLowStockAlerts() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	_, err := js.lowStock.Run(ctx)
	return err
}

// gocronLogger routes scheduler logs through zap.
type gocronLogger struct {
	s *zap.SugaredLogger
}

func (l gocronLogger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l gocronLogger) Error(msg string, args ...any) { l.s.Errorw(msg, args...) }
func (l gocronLogger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l gocronLogger) Warn(msg string, args ...any)  { l.s.Warnw(msg, args...) }
