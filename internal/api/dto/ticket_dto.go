package dto

import (
	"time"

	"github.com/spec-kit/solicitud-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Category       domain.TicketCategory `json:"category"`
	Subcategory    string                `json:"subcategory"`
	RequesterID    string                `json:"requester_id"`
	DepartmentID   string                `json:"department_id"`
	PriorityID     string                `json:"priority_id"`
	ManagerID      *string               `json:"manager_id"`
	SupervisorID   *string               `json:"supervisor_id"`
	MaterialTypeID *string               `json:"material_type_id"`
	ProviderID     *string               `json:"provider_id"`
	DueAt          *time.Time            `json:"due_at"`
	EstimatedCost  float64               `json:"estimated_cost"`
}

// UpdateTicketRequest carries the editable non-state fields. Absent fields are left alone.
type UpdateTicketRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Subcategory   *string    `json:"subcategory"`
	ManagerID     *string    `json:"manager_id"`
	SupervisorID  *string    `json:"supervisor_id"`
	DueAt         *time.Time `json:"due_at"`
	ClearDueAt    bool       `json:"clear_due_at"`
	EstimatedCost *float64   `json:"estimated_cost"`
	ActualCost    *float64   `json:"actual_cost"`
}

// TransitionRequest is accepted by every lifecycle endpoint.
type TransitionRequest struct {
	ExpectedState  domain.TicketState `json:"expected_state"`
	ManagerID      *string            `json:"manager_id"`
	ResolutionText string             `json:"resolution_text"`
}

// TicketResponse is a ticket with its derived fields.
type TicketResponse struct {
	ID                string                `json:"id"`
	Number            string                `json:"number"`
	Title             string                `json:"title"`
	Description       string                `json:"description"`
	Category          domain.TicketCategory `json:"category"`
	Subcategory       string                `json:"subcategory,omitempty"`
	State             domain.TicketState    `json:"state"`
	RequestedAt       time.Time             `json:"requested_at"`
	AssignedAt        *time.Time            `json:"assigned_at"`
	StartedAt         *time.Time            `json:"started_at"`
	DueAt             *time.Time            `json:"due_at"`
	ResolvedAt        *time.Time            `json:"resolved_at"`
	ClosedAt          *time.Time            `json:"closed_at"`
	RequesterID       string                `json:"requester_id"`
	ManagerID         *string               `json:"manager_id"`
	SupervisorID      *string               `json:"supervisor_id"`
	DepartmentID      string                `json:"department_id"`
	PriorityID        string                `json:"priority_id"`
	PriorityLevel     int                   `json:"priority_level"`
	MaterialTypeID    *string               `json:"material_type_id"`
	ProviderID        *string               `json:"provider_id"`
	ResolutionText    string                `json:"resolution_text,omitempty"`
	EstimatedCost     float64               `json:"estimated_cost"`
	ActualCost        float64               `json:"actual_cost"`
	SatisfactionScore *int                  `json:"satisfaction_score"`
	ResolutionHours   float64               `json:"resolution_hours"`
	DaysPending       int                   `json:"days_pending"`
	IsOverdue         bool                  `json:"is_overdue"`
	ColorTier         domain.ColorTier      `json:"color_tier"`
	Operations        []domain.Operation    `json:"operations"`
	Version           int64                 `json:"version"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// TicketListResponse wraps a page of tickets.
type TicketListResponse struct {
	Items  []TicketResponse `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// TransitionResponse reports the committed transition.
type TransitionResponse struct {
	Ticket  TicketResponse       `json:"ticket"`
	Entry   HistoryEntryResponse `json:"history_entry"`
	Message string               `json:"message"`
}

// HistoryEntryResponse is one state change.
type HistoryEntryResponse struct {
	ID                   string             `json:"id"`
	TicketID             string             `json:"ticket_id"`
	FromState            domain.TicketState `json:"from_state,omitempty"`
	ToState              domain.TicketState `json:"to_state"`
	ChangedAt            time.Time          `json:"changed_at"`
	ChangedBy            string             `json:"changed_by"`
	HoursInPreviousState float64            `json:"hours_in_previous_state"`
}

// HistoryResponse lists the history with time spent per state.
type HistoryResponse struct {
	Entries     []HistoryEntryResponse         `json:"entries"`
	TimeInState map[domain.TicketState]float64 `json:"time_in_state"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse represents one comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSurveyRequest payload.
type CreateSurveyRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// SurveyResponse represents a satisfaction survey.
type SurveyResponse struct {
	ID           string    `json:"id"`
	RespondentID string    `json:"respondent_id"`
	Score        int       `json:"score"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
