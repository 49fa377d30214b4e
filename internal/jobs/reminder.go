// Package jobs holds the periodic work of the request desk.
package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/clock"
	"github.com/spec-kit/solicitud-service/internal/notify"
	"github.com/spec-kit/solicitud-service/internal/query"
	"github.com/spec-kit/solicitud-service/internal/repository"
	"github.com/spec-kit/solicitud-service/internal/worker"
)

const (
	// DefaultReminderHorizon is how far ahead a due date triggers a reminder.
	DefaultReminderHorizon = 24 * time.Hour

	reminderBatchSize = 100
)

// ReminderScheduler emits one reminder per open ticket with a manager whose due date
// falls within the horizon. It does not deduplicate across runs.
type ReminderScheduler struct {
	tickets repository.TicketRepository
	sink    notify.ReminderSink
	clock   clock.Clock
	pool    *worker.Pool
	horizon time.Duration
	logger  *zap.Logger
	onSent  func(n int)
}

// ReminderOption customizes a scheduler.
type ReminderOption func(*ReminderScheduler)

// WithPool fans reminder emission out over pool.
func WithPool(pool *worker.Pool) ReminderOption {
	return func(s *ReminderScheduler) { s.pool = pool }
}

// WithHorizon overrides the default 24h horizon.
func WithHorizon(d time.Duration) ReminderOption {
	return func(s *ReminderScheduler) {
		if d > 0 {
			s.horizon = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ReminderOption {
	return func(s *ReminderScheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSentHook is called with the number of reminders each run emitted.
func WithSentHook(fn func(n int)) ReminderOption {
	return func(s *ReminderScheduler) { s.onSent = fn }
}

// NewReminderScheduler builds a scheduler.
func NewReminderScheduler(tickets repository.TicketRepository, sink notify.ReminderSink, c clock.Clock, opts ...ReminderOption) *ReminderScheduler {
	if c == nil {
		c = clock.System()
	}
	s := &ReminderScheduler{
		tickets: tickets,
		sink:    sink,
		clock:   c,
		horizon: DefaultReminderHorizon,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans tickets due by now+horizon and emits their reminders. It returns the number
// of reminders emitted; failed emissions are joined into the error.
func (s *ReminderScheduler) Run(ctx context.Context) (int, error) {
	bound := s.clock.Now().Add(s.horizon)
	pred := query.DueBy(bound)

	var (
		mu   sync.Mutex
		sent int
		errs []error
	)
	group := s.pool.NewGroup()
	for offset := 0; ; offset += reminderBatchSize {
		batch, err := s.tickets.Search(ctx, pred, []query.Order{{Field: query.FieldDueAt}}, reminderBatchSize, offset)
		if err != nil {
			group.Wait()
			return sent, err
		}
		for i := range batch {
			ticket := batch[i]
			if !ticket.HasManager() || ticket.DueAt == nil {
				continue
			}
			err := group.Go(ctx, func(ctx context.Context) {
				err := s.sink.ScheduleReminder(ctx, *ticket.ManagerID, ticket.Number, ticket.Title, *ticket.DueAt)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				sent++
			})
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
		if len(batch) < reminderBatchSize {
			break
		}
	}
	group.Wait()

	s.logger.Info("reminder run completed",
		zap.Int("sent", sent),
		zap.Int("failed", len(errs)),
		zap.Time("due_by", bound))
	if s.onSent != nil {
		s.onSent(sent)
	}
	return sent, errors.Join(errs...)
}
