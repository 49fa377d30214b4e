package domain

import "time"

// HistoryEntry is an immutable record of one state change. An entry with an empty
// FromState documents creation.
type HistoryEntry struct {
	ID        string
	TicketID  string
	FromState TicketState
	ToState   TicketState
	ChangedAt time.Time
	ChangedBy string
	// HoursInPreviousState is the time since the previous entry, or since requested_at
	// for the first entry.
	HoursInPreviousState float64
}

// IsCreation reports whether the entry documents ticket creation.
func (h HistoryEntry) IsCreation() bool {
	return h.FromState == ""
}

// HoursBetween returns the elapsed hours from start to end.
func HoursBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// RecomputeDurations rebuilds HoursInPreviousState for an ordered log.
func RecomputeDurations(entries []HistoryEntry, requestedAt time.Time) []HistoryEntry {
	out := make([]HistoryEntry, len(entries))
	prev := requestedAt
	for i, entry := range entries {
		entry.HoursInPreviousState = HoursBetween(prev, entry.ChangedAt)
		out[i] = entry
		prev = entry.ChangedAt
	}
	return out
}

// TimeInState sums the hours spent in each state according to the log. The current
// state accrues time until now.
func TimeInState(entries []HistoryEntry, now time.Time) map[TicketState]float64 {
	totals := make(map[TicketState]float64)
	if len(entries) == 0 {
		return totals
	}
	for i, entry := range entries {
		end := now
		if i+1 < len(entries) {
			end = entries[i+1].ChangedAt
		}
		if end.After(entry.ChangedAt) {
			totals[entry.ToState] += HoursBetween(entry.ChangedAt, end)
		}
	}
	return totals
}

// ValidWalk reports whether the to-states of an ordered log form a walk of the
// transition graph starting from the creation entry.
func ValidWalk(entries []HistoryEntry) bool {
	for i, entry := range entries {
		if i == 0 {
			if !entry.IsCreation() {
				return false
			}
			continue
		}
		if entry.FromState != entries[i-1].ToState {
			return false
		}
		if !CanTransition(entry.FromState, entry.ToState) {
			return false
		}
	}
	return true
}
