package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	_ Notifier     = (*LogSink)(nil)
	_ ReminderSink = (*LogSink)(nil)
	_ Notifier     = (*RedisSink)(nil)
	_ ReminderSink = (*RedisSink)(nil)
	_ Notifier     = (*Memory)(nil)
	_ ReminderSink = (*Memory)(nil)
)

func TestMemoryRecordsAndFails(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	due := time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)

	require.NoError(t, m.Notify(ctx, "t-1", "Request SOL-2026-00001 created"))
	require.NoError(t, m.ScheduleReminder(ctx, "mgr-1", "SOL-2026-00001", "Projector", due))

	boom := errors.New("smtp down")
	m.Fail(boom)
	require.ErrorIs(t, m.Notify(ctx, "t-1", "ignored"), boom)
	require.ErrorIs(t, m.ScheduleReminder(ctx, "mgr-1", "SOL-2026-00001", "Projector", due), boom)

	m.Fail(nil)
	require.NoError(t, m.Notify(ctx, "t-2", "second"))

	notifications := m.Notifications()
	require.Len(t, notifications, 2)
	require.Equal(t, "t-2", notifications[1].TicketID)

	reminders := m.Reminders()
	require.Equal(t, []Reminder{{ManagerID: "mgr-1", TicketNumber: "SOL-2026-00001", Title: "Projector", DueAt: due}}, reminders)
}

func TestLogSinkNeverFails(t *testing.T) {
	sink := NewLogSink(zap.NewNop())
	require.NoError(t, sink.Notify(context.Background(), "t-1", "hello"))
	require.NoError(t, sink.ScheduleReminder(context.Background(), "mgr-1", "SOL-1", "x", time.Now()))
}
