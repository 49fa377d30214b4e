package domain

import "time"

// TicketComment captures a free-text note on a ticket thread.
type TicketComment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

// SatisfactionSurvey records the requester's rating after resolution.
type SatisfactionSurvey struct {
	ID           string
	TicketID     string
	RespondentID string
	Score        int
	Comment      string
	CreatedAt    time.Time
}

// Satisfaction scores span 1 to 5.
const (
	MinSatisfactionScore = 1
	MaxSatisfactionScore = 5
)
