package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecomputeDurations(t *testing.T) {
	entries := []HistoryEntry{
		{ToState: StatePending, ChangedAt: t0},
		{FromState: StatePending, ToState: StateAssigned, ChangedAt: t0.Add(time.Hour)},
		{FromState: StateAssigned, ToState: StateInProgress, ChangedAt: t0.Add(3 * time.Hour)},
	}
	got := RecomputeDurations(entries, t0)
	require.InDelta(t, 0, got[0].HoursInPreviousState, 1e-9)
	require.InDelta(t, 1, got[1].HoursInPreviousState, 1e-9)
	require.InDelta(t, 2, got[2].HoursInPreviousState, 1e-9)
	require.Zero(t, entries[2].HoursInPreviousState, "input must not be mutated")
}

func TestTimeInState(t *testing.T) {
	entries := []HistoryEntry{
		{ToState: StatePending, ChangedAt: t0},
		{FromState: StatePending, ToState: StateAssigned, ChangedAt: t0.Add(time.Hour)},
		{FromState: StateAssigned, ToState: StatePending, ChangedAt: t0.Add(2 * time.Hour)},
	}
	totals := TimeInState(entries, t0.Add(5*time.Hour))
	require.InDelta(t, 4, totals[StatePending], 1e-9)
	require.InDelta(t, 1, totals[StateAssigned], 1e-9)
}

func TestValidWalk(t *testing.T) {
	valid := []HistoryEntry{
		{ToState: StatePending},
		{FromState: StatePending, ToState: StateAssigned},
		{FromState: StateAssigned, ToState: StateResolved},
		{FromState: StateResolved, ToState: StateClosed},
		{FromState: StateClosed, ToState: StatePending},
	}
	require.True(t, ValidWalk(valid))

	jump := []HistoryEntry{
		{ToState: StateDraft},
		{FromState: StateDraft, ToState: StateResolved},
	}
	require.False(t, ValidWalk(jump))

	broken := []HistoryEntry{
		{ToState: StatePending},
		{FromState: StateAssigned, ToState: StateInProgress},
	}
	require.False(t, ValidWalk(broken))
}

func TestValidateSchedule(t *testing.T) {
	ticket := &Ticket{RequestedAt: t0, DueAt: at(-time.Hour)}
	require.Error(t, ticket.ValidateSchedule())

	ticket.DueAt = at(time.Hour)
	require.NoError(t, ticket.ValidateSchedule())

	ticket.DueAt = nil
	require.NoError(t, ticket.ValidateSchedule())
}

func TestCloneDoesNotAlias(t *testing.T) {
	manager := "m-1"
	ticket := &Ticket{ManagerID: &manager, DueAt: at(time.Hour)}
	cp := ticket.Clone()
	*cp.ManagerID = "m-2"
	*cp.DueAt = t0
	require.Equal(t, "m-1", *ticket.ManagerID)
	require.Equal(t, t0.Add(time.Hour), *ticket.DueAt)
}
