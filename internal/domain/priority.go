package domain

import "time"

// Priority levels span 1 (low) to 5 (critical).
const (
	MinPriorityLevel = 1
	MaxPriorityLevel = 5
)

// Priority is a lookup that drives ordering, escalation and default due dates.
type Priority struct {
	ID                string
	Name              string
	Level             int
	Description       string
	ResponseTimeHours int
	CreatedAt         time.Time
}

// ValidLevel reports whether level is within range.
func ValidLevel(level int) bool {
	return level >= MinPriorityLevel && level <= MaxPriorityLevel
}

// DueFrom returns the default due date for a request made at requestedAt, or nil when
// the priority carries no response time.
func (p *Priority) DueFrom(requestedAt time.Time) *time.Time {
	if p == nil || p.ResponseTimeHours <= 0 {
		return nil
	}
	due := requestedAt.Add(time.Duration(p.ResponseTimeHours) * time.Hour)
	return &due
}
