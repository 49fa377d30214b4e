package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/solicitud-service/internal/events"
	"github.com/spec-kit/solicitud-service/internal/notify"
)

func TestNotificationWorkerDeliversOnPool(t *testing.T) {
	pool, err := NewPool(2, nil)
	require.NoError(t, err)
	defer pool.Release()

	dispatcher := events.NewInMemoryDispatcher(nil)
	sink := notify.NewMemory()
	StartNotificationWorker(dispatcher, pool, sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:     events.EventTicketStateChanged,
		TicketID: "t-1",
		Message:  "Solicitud SOL-1 asignada",
	}))
	cancel()

	require.Eventually(t, func() bool {
		return len(sink.Notifications()) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "t-1", sink.Notifications()[0].TicketID)
}

func TestNotificationWorkerWithoutPoolIsSynchronous(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	sink := notify.NewMemory()
	StartNotificationWorker(dispatcher, nil, sink, nil)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: "t-2",
		Message:  "created",
	}))
	require.Len(t, sink.Notifications(), 1)
}
