package persistence

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/config"
)

// NewRiverClient builds a job queue client on the default queue.
func NewRiverClient(pool *pgxpool.Pool, workers *river.Workers, periodic []*river.PeriodicJob, cfg config.RiverConfig, logger *zap.Logger) (*river.Client[pgx.Tx], error) {
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers:      workers,
		PeriodicJobs: periodic,
	})
	if err != nil {
		return nil, fmt.Errorf("create river client: %w", err)
	}
	logger.Info("river client initialized", zap.Int("max_workers", maxWorkers))
	return client, nil
}
