package domain

import "time"

// ColorTier is the display urgency of a ticket.
type ColorTier string

const (
	ColorCritical ColorTier = "critical"
	ColorWarning  ColorTier = "warning"
	ColorOK       ColorTier = "ok"
	ColorNeutral  ColorTier = "neutral"
)

// UrgentPriorityLevel is the lowest priority level rendered as a warning.
const UrgentPriorityLevel = 4

// TicketMetrics holds the fields derived from a ticket snapshot.
type TicketMetrics struct {
	ResolutionHours float64
	DaysPending     int
	IsOverdue       bool
	ColorTier       ColorTier
}

// ComputeMetrics derives every metric for t at instant now.
func ComputeMetrics(t *Ticket, now time.Time) TicketMetrics {
	return TicketMetrics{
		ResolutionHours: ResolutionHours(t),
		DaysPending:     DaysPending(t, now),
		IsOverdue:       IsOverdue(t, now),
		ColorTier:       ColorTierAt(t, now),
	}
}

// ResolutionHours is resolved_at - requested_at in hours, or 0 when unresolved.
func ResolutionHours(t *Ticket) float64 {
	if t.ResolvedAt == nil || t.RequestedAt.IsZero() {
		return 0
	}
	return HoursBetween(t.RequestedAt, *t.ResolvedAt)
}

// DaysPending counts whole days since the request for tickets still open.
func DaysPending(t *Ticket, now time.Time) int {
	if t.State.IsTerminal() || t.RequestedAt.IsZero() {
		return 0
	}
	elapsed := now.Sub(t.RequestedAt)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}

// IsOverdue reports a due date in the past on a ticket that still needs work.
func IsOverdue(t *Ticket, now time.Time) bool {
	if t.DueAt == nil || t.State.ExemptFromOverdue() {
		return false
	}
	return now.After(*t.DueAt)
}

// ColorTierAt ranks overdue over urgency over resolved over the default.
func ColorTierAt(t *Ticket, now time.Time) ColorTier {
	switch {
	case IsOverdue(t, now):
		return ColorCritical
	case t.PriorityLevel >= UrgentPriorityLevel:
		return ColorWarning
	case t.State == StateResolved:
		return ColorOK
	default:
		return ColorNeutral
	}
}
