package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/events"
	"github.com/spec-kit/solicitud-service/internal/notify"
)

// NotificationService forwards the message carried by ticket events to the notifier.
// Delivery failures are logged and never reach the caller of the transition.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	notifier   notify.Notifier
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, notifier notify.Notifier) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLogSink(logger)
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		notifier:   notifier,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.deliver)
	n.dispatcher.Subscribe(events.EventTicketStateChanged, n.deliver)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.deliver)
	n.dispatcher.Subscribe(events.EventTicketRated, n.deliver)
}

func (n *NotificationService) deliver(ctx context.Context, event events.Event) error {
	if event.Message == "" {
		return nil
	}
	if err := n.notifier.Notify(ctx, event.TicketID, event.Message); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("ticket_id", event.TicketID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		return nil
	}
	n.logger.Debug("notification delivered",
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
	return nil
}
