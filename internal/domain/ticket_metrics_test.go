package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	v := t0.Add(d)
	return &v
}

func TestResolutionHours(t *testing.T) {
	ticket := &Ticket{RequestedAt: t0}
	require.Zero(t, ResolutionHours(ticket))

	ticket.ResolvedAt = at(5*time.Hour + 30*time.Minute)
	require.InDelta(t, 5.5, ResolutionHours(ticket), 1e-9)
}

func TestDaysPending(t *testing.T) {
	tests := []struct {
		name  string
		state TicketState
		now   time.Time
		want  int
	}{
		{"same day", StatePending, t0.Add(23 * time.Hour), 0},
		{"three whole days", StateInProgress, t0.Add(3*24*time.Hour + 5*time.Hour), 3},
		{"resolved still counts", StateResolved, t0.Add(48 * time.Hour), 2},
		{"closed is zero", StateClosed, t0.Add(48 * time.Hour), 0},
		{"cancelled is zero", StateCancelled, t0.Add(48 * time.Hour), 0},
		{"clock behind request", StatePending, t0.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &Ticket{State: tt.state, RequestedAt: t0}
			require.Equal(t, tt.want, DaysPending(ticket, tt.now))
		})
	}
}

func TestIsOverdue(t *testing.T) {
	now := t0.Add(2 * time.Hour)
	tests := []struct {
		name  string
		state TicketState
		due   *time.Time
		want  bool
	}{
		{"no due date", StateAssigned, nil, false},
		{"past due", StateAssigned, at(time.Hour), true},
		{"due exactly now", StateAssigned, at(2 * time.Hour), false},
		{"future due", StateInProgress, at(3 * time.Hour), false},
		{"resolved exempt", StateResolved, at(time.Hour), false},
		{"closed exempt", StateClosed, at(time.Hour), false},
		{"cancelled exempt", StateCancelled, at(time.Hour), false},
		{"awaiting reply counts", StateAwaitingReply, at(time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &Ticket{State: tt.state, RequestedAt: t0, DueAt: tt.due}
			require.Equal(t, tt.want, IsOverdue(ticket, now))
		})
	}
}

func TestColorTierPrecedence(t *testing.T) {
	now := t0.Add(2 * time.Hour)
	tests := []struct {
		name  string
		state TicketState
		level int
		due   *time.Time
		want  ColorTier
	}{
		{"overdue dominates urgency", StateInProgress, 5, at(time.Hour), ColorCritical},
		{"urgency dominates resolved", StateResolved, 4, nil, ColorWarning},
		{"resolved", StateResolved, 2, at(time.Hour), ColorOK},
		{"default", StatePending, 3, nil, ColorNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &Ticket{State: tt.state, PriorityLevel: tt.level, RequestedAt: t0, DueAt: tt.due}
			require.Equal(t, tt.want, ColorTierAt(ticket, now))
		})
	}
}

func TestComputeMetrics(t *testing.T) {
	ticket := &Ticket{
		State:         StateResolved,
		PriorityLevel: 2,
		RequestedAt:   t0,
		ResolvedAt:    at(26 * time.Hour),
		DueAt:         at(time.Hour),
	}
	got := ComputeMetrics(ticket, t0.Add(30*time.Hour))
	require.Equal(t, TicketMetrics{
		ResolutionHours: 26,
		DaysPending:     1,
		IsOverdue:       false,
		ColorTier:       ColorOK,
	}, got)
}
