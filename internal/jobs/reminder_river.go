package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/riverqueue/river"
)

// ReminderArgs is the periodic job that runs the reminder scan.
type ReminderArgs struct{}

// Kind returns the job kind identifier.
func (ReminderArgs) Kind() string { return "ticket_reminders" }

// InsertOpts allows one pending scan per queue at a time.
func (ReminderArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       river.QueueDefault,
		MaxAttempts: 1,
		UniqueOpts: river.UniqueOpts{
			ByPeriod: 15 * time.Minute,
			ByQueue:  true,
			ByArgs:   true,
		},
	}
}

// ReminderWorker runs the scheduler from the job queue.
type ReminderWorker struct {
	river.WorkerDefaults[ReminderArgs]
	scheduler *ReminderScheduler
}

// NewReminderWorker wraps scheduler.
func NewReminderWorker(scheduler *ReminderScheduler) *ReminderWorker {
	return &ReminderWorker{scheduler: scheduler}
}

// Work performs one reminder scan.
func (w *ReminderWorker) Work(ctx context.Context, _ *river.Job[ReminderArgs]) error {
	if w == nil || w.scheduler == nil {
		return fmt.Errorf("reminder worker is not initialized")
	}
	if _, err := w.scheduler.Run(ctx); err != nil {
		return fmt.Errorf("reminder scan: %w", err)
	}
	return nil
}

// RegisterReminderJob adds the worker and its periodic schedule.
func RegisterReminderJob(workers *river.Workers, scheduler *ReminderScheduler, interval time.Duration) []*river.PeriodicJob {
	river.AddWorker(workers, NewReminderWorker(scheduler))
	if interval <= 0 {
		interval = time.Hour
	}
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(interval),
			func() (river.JobArgs, *river.InsertOpts) {
				return ReminderArgs{}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}
