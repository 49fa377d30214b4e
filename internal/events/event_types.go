package events

import (
	"time"

	"github.com/spec-kit/solicitud-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketStateChanged EventType = "ticket_state_changed"
	EventTicketAssigned     EventType = "ticket_assigned"
	EventTicketCommentAdded EventType = "ticket_comment_added"
	EventTicketRated        EventType = "ticket_rated"
	EventTicketDeleted      EventType = "ticket_deleted"
	EventTicketUpdated      EventType = "ticket_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	TicketID     string    `json:"ticket_id"`
	TicketNumber string    `json:"ticket_number"`
	ActorID      string    `json:"actor_id"`
	Timestamp    time.Time `json:"timestamp"`
	// Message is the human-readable notification text for the change.
	Message string `json:"message,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DepartmentID  string                `json:"department_id"`
	Category      domain.TicketCategory `json:"category"`
	PriorityLevel int                   `json:"priority_level"`
	Title         string                `json:"title"`
}

// TicketStateChangedPayload payload.
type TicketStateChangedPayload struct {
	Operation domain.Operation   `json:"operation"`
	From      domain.TicketState `json:"from"`
	To        domain.TicketState `json:"to"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	ManagerID string `json:"manager_id"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}

// TicketRatedPayload payload.
type TicketRatedPayload struct {
	Score int `json:"score"`
}
