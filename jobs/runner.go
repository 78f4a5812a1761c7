package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tutorcenter/scheduler/metrics"
	"github.com/tutorcenter/scheduler/observability"
	"go.uber.org/zap"
)

type Job func(ctx context.Context) error

const (
	semesterSpec = "5 0 * * *"
	reminderSpec = "0 7 * * *"
)

// Schedule registers the daily jobs on c. Runs use ctx, so cancelling it
// stops in-flight work.
func Schedule(ctx context.Context, c *cron.Cron) error {
	if _, err := c.AddFunc(semesterSpec, Run(ctx, "refresh_semester", RefreshSemester)); err != nil {
		return fmt.Errorf("schedule refresh_semester: %w", err)
	}
	if _, err := c.AddFunc(reminderSpec, Run(ctx, "session_reminders", SendSessionReminders)); err != nil {
		return fmt.Errorf("schedule session_reminders: %w", err)
	}
	return nil
}

// Run wraps fn with metrics, logging and panic recovery.
func Run(ctx context.Context, name string, fn Job) func() {
	return func() {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				metrics.JobErrors.WithLabelValues(name).Inc()
				observability.CaptureErr(fmt.Errorf("panic in job %s: %v", name, r))
				zap.S().Errorw("job panicked", "job", name, "panic", r)
			}
			metrics.JobRuns.WithLabelValues(name).Inc()
			metrics.JobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		}()

		if err := fn(ctx); err != nil {
			metrics.JobErrors.WithLabelValues(name).Inc()
			observability.CaptureErr(err)
			zap.S().Errorw("job failed", "job", name, "error", err)
			return
		}
		zap.S().Debugw("job finished", "job", name, "took", time.Since(start))
	}
}
