// Package notify delivers transition messages and manager reminders to the outside world.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Notifier receives the message produced by a committed transition.
type Notifier interface {
	Notify(ctx context.Context, ticketID, message string) error
}

// ReminderSink receives one reminder per ticket nearing its due date.
type ReminderSink interface {
	ScheduleReminder(ctx context.Context, managerID, ticketNumber, title string, due time.Time) error
}

// Notification is one delivered transition message.
type Notification struct {
	TicketID string    `json:"ticket_id"`
	Message  string    `json:"message"`
	SentAt   time.Time `json:"sent_at"`
}

// Reminder is one scheduled reminder.
type Reminder struct {
	ManagerID    string    `json:"manager_id"`
	TicketNumber string    `json:"ticket_number"`
	Title        string    `json:"title"`
	DueAt        time.Time `json:"due_at"`
}

// LogSink writes notifications and reminders to the service log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink builds a sink on logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, ticketID, message string) error {
	s.logger.Info("ticket notification", zap.String("ticket_id", ticketID), zap.String("message", message))
	return nil
}

func (s *LogSink) ScheduleReminder(_ context.Context, managerID, ticketNumber, title string, due time.Time) error {
	s.logger.Info("ticket reminder",
		zap.String("manager_id", managerID),
		zap.String("ticket_number", ticketNumber),
		zap.String("title", title),
		zap.Time("due_at", due),
	)
	return nil
}

// RedisSink pushes JSON records onto Redis lists for downstream mailers.
type RedisSink struct {
	client      *redis.Client
	notifyKey   string
	reminderKey string
	now         func() time.Time
}

// NewRedisSink builds a sink writing to the two list keys.
func NewRedisSink(client *redis.Client, notifyKey, reminderKey string) *RedisSink {
	return &RedisSink{
		client:      client,
		notifyKey:   notifyKey,
		reminderKey: reminderKey,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *RedisSink) Notify(ctx context.Context, ticketID, message string) error {
	return s.push(ctx, s.notifyKey, Notification{TicketID: ticketID, Message: message, SentAt: s.now()})
}

func (s *RedisSink) ScheduleReminder(ctx context.Context, managerID, ticketNumber, title string, due time.Time) error {
	return s.push(ctx, s.reminderKey, Reminder{
		ManagerID:    managerID,
		TicketNumber: ticketNumber,
		Title:        title,
		DueAt:        due,
	})
}

func (s *RedisSink) push(ctx context.Context, key string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("push to %s: %w", key, err)
	}
	return nil
}

// Memory records everything it receives. Fail makes subsequent deliveries return err.
type Memory struct {
	mu            sync.Mutex
	notifications []Notification
	reminders     []Reminder
	err           error
}

// NewMemory returns an empty recorder.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Notify(_ context.Context, ticketID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.notifications = append(m.notifications, Notification{TicketID: ticketID, Message: message})
	return nil
}

func (m *Memory) ScheduleReminder(_ context.Context, managerID, ticketNumber, title string, due time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reminders = append(m.reminders, Reminder{
		ManagerID:    managerID,
		TicketNumber: ticketNumber,
		Title:        title,
		DueAt:        due,
	})
	return nil
}

// Fail sets the error returned by later deliveries; nil restores delivery.
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Notifications returns a copy of the recorded notifications.
func (m *Memory) Notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.notifications...)
}

// Reminders returns a copy of the recorded reminders.
func (m *Memory) Reminders() []Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Reminder(nil), m.reminders...)
}
