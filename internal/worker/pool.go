// Package worker runs background work on a bounded goroutine pool.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// ErrPoolClosed is returned when submitting to a released pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware unit of work.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool   *ants.Pool
	logger *zap.Logger
}

// NewPool creates a blocking pool of size workers. Panics inside tasks are logged.
func NewPool(size int, logger *zap.Logger) (*Pool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 1
	}
	p, err := ants.NewPool(size,
		ants.WithPanicHandler(func(r interface{}) {
			logger.Error("worker panic recovered", zap.Any("panic", r), zap.Stack("stack"))
		}),
		ants.WithNonblocking(false),
	)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p, logger: logger}, nil
}

// Submit queues task. If ctx is already done the task is not queued; if ctx ends while
// the task waits, the task is skipped.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	err := p.pool.Submit(func() {
		select {
		case <-ctx.Done():
			p.logger.Debug("task skipped: context cancelled", zap.Error(ctx.Err()))
			return
		default:
		}
		task(ctx)
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

// Group submits tasks to a pool and waits for all of them.
type Group struct {
	pool *Pool
	wg   sync.WaitGroup
}

// NewGroup returns a group bound to p. A nil pool runs tasks inline.
func (p *Pool) NewGroup() *Group {
	return &Group{pool: p}
}

// Go runs task on the pool.
func (g *Group) Go(ctx context.Context, task Task) error {
	if g.pool == nil {
		task(ctx)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	g.wg.Add(1)
	err := g.pool.pool.Submit(func() {
		defer g.wg.Done()
		if ctx.Err() != nil {
			return
		}
		task(ctx)
	})
	if err != nil {
		g.wg.Done()
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
	}
	return err
}

// Wait blocks until every submitted task has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}

// Release stops the pool, waiting for running tasks.
func (p *Pool) Release() {
	if p == nil {
		return
	}
	p.pool.Release()
}

// Stats reports pool occupancy.
func (p *Pool) Stats() map[string]int {
	return map[string]int{
		"running": p.pool.Running(),
		"free":    p.pool.Free(),
		"cap":     p.pool.Cap(),
	}
}
