package domain

import (
	"strings"
	"time"

	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// TicketState enumerates lifecycle states for tickets.
type TicketState string

const (
	StateDraft         TicketState = "draft"
	StatePending       TicketState = "pending"
	StateAssigned      TicketState = "assigned"
	StateInProgress    TicketState = "in_progress"
	StateAwaitingReply TicketState = "awaiting_reply"
	StateResolved      TicketState = "resolved"
	StateClosed        TicketState = "closed"
	StateCancelled     TicketState = "cancelled"
)

// AllStates lists every state in lifecycle order.
var AllStates = []TicketState{
	StateDraft,
	StatePending,
	StateAssigned,
	StateInProgress,
	StateAwaitingReply,
	StateResolved,
	StateClosed,
	StateCancelled,
}

// OverdueExemptStates never count as overdue regardless of due date.
var OverdueExemptStates = []TicketState{StateClosed, StateCancelled, StateResolved}

// Valid reports whether s is a known state.
func (s TicketState) Valid() bool {
	for _, candidate := range AllStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports closed and cancelled.
func (s TicketState) IsTerminal() bool {
	return s == StateClosed || s == StateCancelled
}

// ExemptFromOverdue reports whether tickets in s are never overdue.
func (s TicketState) ExemptFromOverdue() bool {
	for _, candidate := range OverdueExemptStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// TicketCategory classifies the kind of request.
type TicketCategory string

const (
	CategoryMaterial    TicketCategory = "material"
	CategorySupport     TicketCategory = "support"
	CategoryMaintenance TicketCategory = "maintenance"
	CategoryPermits     TicketCategory = "permits"
	CategoryHR          TicketCategory = "hr"
	CategoryFinance     TicketCategory = "finance"
	CategoryIT          TicketCategory = "it"
	CategoryOther       TicketCategory = "other"
)

// Valid reports whether c is a known category.
func (c TicketCategory) Valid() bool {
	switch c {
	case CategoryMaterial, CategorySupport, CategoryMaintenance, CategoryPermits,
		CategoryHR, CategoryFinance, CategoryIT, CategoryOther:
		return true
	}
	return false
}

// Ticket is the aggregate for internal requests.
type Ticket struct {
	ID          string
	Number      string
	Title       string
	Description string
	Category    TicketCategory
	Subcategory string

	State          TicketState
	StateChangedAt time.Time
	RequestedAt    time.Time
	AssignedAt     *time.Time
	StartedAt      *time.Time
	DueAt          *time.Time
	ResolvedAt     *time.Time
	ClosedAt       *time.Time

	RequesterID  string
	ManagerID    *string
	SupervisorID *string

	DepartmentID   string
	PriorityID     string
	PriorityLevel  int
	MaterialTypeID *string
	ProviderID     *string

	ResolutionText    string
	EstimatedCost     float64
	ActualCost        float64
	SatisfactionScore *int

	// ResolutionHours is cached once ResolvedAt is fixed and cleared on reopen.
	ResolutionHours float64

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasManager reports whether a manager is set.
func (t *Ticket) HasManager() bool {
	return t.ManagerID != nil && strings.TrimSpace(*t.ManagerID) != ""
}

// ValidateSchedule enforces due_at >= requested_at.
func (t *Ticket) ValidateSchedule() error {
	if t.DueAt != nil && t.DueAt.Before(t.RequestedAt) {
		return apperrors.NewValidationError("due_at must not precede requested_at", map[string]any{
			"requested_at": t.RequestedAt,
			"due_at":       *t.DueAt,
		})
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	cp := *t
	cp.AssignedAt = cloneTime(t.AssignedAt)
	cp.StartedAt = cloneTime(t.StartedAt)
	cp.DueAt = cloneTime(t.DueAt)
	cp.ResolvedAt = cloneTime(t.ResolvedAt)
	cp.ClosedAt = cloneTime(t.ClosedAt)
	cp.ManagerID = cloneString(t.ManagerID)
	cp.SupervisorID = cloneString(t.SupervisorID)
	cp.MaterialTypeID = cloneString(t.MaterialTypeID)
	cp.ProviderID = cloneString(t.ProviderID)
	if t.SatisfactionScore != nil {
		score := *t.SatisfactionScore
		cp.SatisfactionScore = &score
	}
	return &cp
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
