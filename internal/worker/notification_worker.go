package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/events"
	"github.com/spec-kit/solicitud-service/internal/notify"
	"github.com/spec-kit/solicitud-service/internal/service"
)

// pooledNotifier hands each delivery to the pool so a slow sink never holds up the
// request that published the event.
type pooledNotifier struct {
	pool   *Pool
	next   notify.Notifier
	logger *zap.Logger
}

func (p *pooledNotifier) Notify(ctx context.Context, ticketID, message string) error {
	// The request context ends with the response; delivery must outlive it.
	detached := context.WithoutCancel(ctx)
	err := p.pool.Submit(detached, func(ctx context.Context) {
		if err := p.next.Notify(ctx, ticketID, message); err != nil {
			p.logger.Warn("async notification failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
	})
	if err != nil {
		// Pool gone during shutdown: fall back to delivering inline.
		return p.next.Notify(detached, ticketID, message)
	}
	return nil
}

// StartNotificationWorker subscribes notification delivery to ticket events. With a
// pool the sink is called asynchronously; without one deliveries run inline.
func StartNotificationWorker(dispatcher events.Dispatcher, pool *Pool, sink notify.Notifier, logger *zap.Logger) *service.NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := sink
	if pool != nil && sink != nil {
		notifier = &pooledNotifier{pool: pool, next: sink, logger: logger}
	}
	svc := service.NewNotificationService(dispatcher, logger, notifier)
	svc.RegisterHandlers()
	return svc
}
