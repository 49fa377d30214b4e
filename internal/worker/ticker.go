package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunEvery calls fn immediately and then every interval until ctx ends. It is the
// scheduler used when no job queue is configured.
func RunEvery(ctx context.Context, interval time.Duration, logger *zap.Logger, name string, fn func(context.Context) error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	run := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("periodic task failed", zap.String("task", name), zap.Error(err))
		}
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
