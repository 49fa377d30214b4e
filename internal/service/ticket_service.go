package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/clock"
	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/events"
	"github.com/spec-kit/solicitud-service/internal/observability"
	"github.com/spec-kit/solicitud-service/internal/query"
	"github.com/spec-kit/solicitud-service/internal/repository"
	"github.com/spec-kit/solicitud-service/internal/sequence"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// TicketService owns the request lifecycle: creation, every state transition and the
// history log those transitions produce.
type TicketService struct {
	tickets    repository.TicketRepository
	catalog    repository.CatalogRepository
	comments   repository.TicketCommentRepository
	sequence   sequence.Provider
	clock      clock.Clock
	overdue    *query.OverdueQuery
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CatalogRepo repository.CatalogRepository
	CommentRepo repository.TicketCommentRepository
	Sequence    sequence.Provider
	Clock       clock.Clock
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
}

// TicketCreateInput describes ticket creation payload. RequesterID defaults to the actor.
type TicketCreateInput struct {
	Title          string
	Description    string
	Category       domain.TicketCategory
	Subcategory    string
	RequesterID    string
	DepartmentID   string
	PriorityID     string
	ManagerID      *string
	SupervisorID   *string
	MaterialTypeID *string
	ProviderID     *string
	DueAt          *time.Time
	EstimatedCost  float64
}

// TransitionInput carries the optional arguments of a transition.
type TransitionInput struct {
	// ExpectedState, when set, must equal the ticket's state at commit time.
	ExpectedState domain.TicketState
	// ManagerID sets the manager as part of Assign.
	ManagerID *string
	// ResolutionText sets the resolution as part of Resolve.
	ResolutionText string
}

// TransitionResult is the updated ticket plus the notification text for the change.
type TransitionResult struct {
	Ticket  *domain.Ticket
	Entry   domain.HistoryEntry
	Message string
}

// TicketView is a ticket with its derived fields evaluated at read time.
type TicketView struct {
	Ticket     *domain.Ticket
	Metrics    domain.TicketMetrics
	Operations []domain.Operation
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	c := deps.Clock
	if c == nil {
		c = clock.System()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	seq := deps.Sequence
	if seq == nil {
		seq = sequence.NewKeyProvider("SOL")
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		catalog:    deps.CatalogRepo,
		comments:   deps.CommentRepo,
		sequence:   seq,
		clock:      c,
		overdue:    query.NewOverdueQuery(c),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
	}
}

// Create validates input, issues a ticket number and persists the ticket in pending
// together with the history entry documenting its creation.
func (s *TicketService) Create(ctx context.Context, actorID string, input TicketCreateInput) (*domain.Ticket, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, apperrors.NewValidationError("actor required", nil)
	}
	requester := strings.TrimSpace(input.RequesterID)
	if requester == "" {
		requester = actorID
	}
	input.Title = strings.TrimSpace(input.Title)

	missing := []string{}
	if input.Title == "" {
		missing = append(missing, "title")
	}
	if input.Category == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(input.DepartmentID) == "" {
		missing = append(missing, "department_id")
	}
	if strings.TrimSpace(input.PriorityID) == "" {
		missing = append(missing, "priority_id")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if input.EstimatedCost < 0 {
		return nil, apperrors.NewValidationError("estimated_cost must not be negative", nil)
	}

	priority, err := s.resolveReferences(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ticket := &domain.Ticket{
		Title:          input.Title,
		Description:    strings.TrimSpace(input.Description),
		Category:       input.Category,
		Subcategory:    strings.TrimSpace(input.Subcategory),
		State:          domain.StatePending,
		StateChangedAt: now,
		RequestedAt:    now,
		DueAt:          input.DueAt,
		RequesterID:    requester,
		ManagerID:      nonEmpty(input.ManagerID),
		SupervisorID:   nonEmpty(input.SupervisorID),
		DepartmentID:   input.DepartmentID,
		PriorityID:     priority.ID,
		PriorityLevel:  priority.Level,
		MaterialTypeID: nonEmpty(input.MaterialTypeID),
		ProviderID:     nonEmpty(input.ProviderID),
		EstimatedCost:  input.EstimatedCost,
	}
	if ticket.DueAt == nil {
		ticket.DueAt = priority.DueFrom(now)
	}
	if err := ticket.ValidateSchedule(); err != nil {
		return nil, err
	}

	number, err := s.sequence.Next(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(fmt.Errorf("issue ticket number: %w", err))
	}
	ticket.Number = number

	created := &domain.HistoryEntry{
		ToState:   domain.StatePending,
		ChangedAt: now,
		ChangedBy: actorID,
	}
	if err := s.tickets.Create(ctx, ticket, created); err != nil {
		return nil, apperrors.FromStore(err, "ticket", nil)
	}

	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("ticket_number", ticket.Number),
		zap.String("actor", actorID))
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketID:     ticket.ID,
		TicketNumber: ticket.Number,
		ActorID:      actorID,
		Message:      fmt.Sprintf("Request %s created: %s", ticket.Number, ticket.Title),
		Payload: events.TicketCreatedPayload{
			DepartmentID:  ticket.DepartmentID,
			Category:      ticket.Category,
			PriorityLevel: ticket.PriorityLevel,
			Title:         ticket.Title,
		},
	})
	return ticket, nil
}

func (s *TicketService) resolveReferences(ctx context.Context, input TicketCreateInput) (*domain.Priority, error) {
	priority, err := s.catalog.GetPriority(ctx, input.PriorityID)
	if err != nil {
		return nil, referenceError(err, "priority_id", input.PriorityID)
	}
	dept, err := s.catalog.GetDepartment(ctx, input.DepartmentID)
	if err != nil {
		return nil, referenceError(err, "department_id", input.DepartmentID)
	}
	if !dept.IsActive {
		return nil, apperrors.NewValidationError("department inactive", map[string]any{"department_id": dept.ID})
	}
	if id := nonEmpty(input.MaterialTypeID); id != nil {
		if _, err := s.catalog.GetMaterialType(ctx, *id); err != nil {
			return nil, referenceError(err, "material_type_id", *id)
		}
	}
	if id := nonEmpty(input.ProviderID); id != nil {
		if _, err := s.catalog.GetProvider(ctx, *id); err != nil {
			return nil, referenceError(err, "provider_id", *id)
		}
	}
	return priority, nil
}

// referenceError reports an unknown lookup as bad input rather than a missing ticket.
func referenceError(err error, field, id string) error {
	mapped := apperrors.FromStore(err, field, nil)
	if apperrors.IsCode(mapped, apperrors.CodeNotFound) {
		return apperrors.NewValidationError("unknown "+strings.TrimSuffix(field, "_id"), map[string]any{field: id})
	}
	return mapped
}

// Submit moves a draft into the pending queue.
func (s *TicketService) Submit(ctx context.Context, ticketID, actorID string, in TransitionInput) (*TransitionResult, error) {
	return s.transition(ctx, ticketID, actorID, domain.OpSubmit, in)
}

// Assign requires a manager, taken from the input or already on the ticket.
func (s *TicketService) Assign(ctx context.Context, ticketID, actorID string, in TransitionInput) (*TransitionResult, error) {
	return s.transition(ctx, ticketID, actorID, domain.OpAssign, in)
}

// StartWork moves the ticket into progress.
func (s *TicketService) StartWork(ctx context.Context, ticketID, actorID string, in TransitionInput) (*TransitionResult, error) {
	return s.transition(ctx, ticketID, actorID, domain.OpStartWork, in)
}

// AwaitReply parks the ticket until the requester answers.
func (s *TicketService) AwaitReply(ctx context.Context, ticketID, actorID string, in TransitionInput) (*TransitionResult, error) {
	return s.transition(ctx, ticketID, actorID, domain.OpAwaitReply, in)
}

// Resolve requires resolution text, taken from the input or already on the ticket.
func (s *TicketService) Resolve(ctx context.Context, ticketID, actorID string, in TransitionInput) (*TransitionResult, error) {
	return s.transition(ctx, ticketID, actorID, domain.OpResolve, in)
}

func (s *TicketService) Close(ctx context.Context, ticketID, actorID string, in TransitionInput) (*TransitionResult, error) {
	return s.transition(ctx, ticketID, actorID, domain.OpClose, in)
}

func (s *TicketService) Cancel(ctx context.Context, ticketID, actorID string, in TransitionInput) (*TransitionResult, error) {
	return s.transition(ctx, ticketID, actorID, domain.OpCancel, in)
}

// Reopen returns a closed or cancelled ticket to pending and clears its resolution.
func (s *TicketService) Reopen(ctx context.Context, ticketID, actorID string, in TransitionInput) (*TransitionResult, error) {
	return s.transition(ctx, ticketID, actorID, domain.OpReopen, in)
}

// Transition dispatches op by name.
func (s *TicketService) Transition(ctx context.Context, ticketID, actorID string, op domain.Operation, in TransitionInput) (*TransitionResult, error) {
	if !op.Valid() {
		return nil, apperrors.NewValidationError("unknown operation", map[string]any{"operation": op})
	}
	return s.transition(ctx, ticketID, actorID, op, in)
}

func (s *TicketService) transition(ctx context.Context, ticketID, actorID string, op domain.Operation, in TransitionInput) (*TransitionResult, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, apperrors.NewValidationError("actor required", nil)
	}
	if in.ExpectedState != "" && !in.ExpectedState.Valid() {
		return nil, apperrors.NewValidationError("unknown expected_state", map[string]any{"expected_state": in.ExpectedState})
	}

	now := s.clock.Now()
	var entry domain.HistoryEntry
	updated, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) (*domain.HistoryEntry, error) {
		if in.ExpectedState != "" && t.State != in.ExpectedState {
			return nil, apperrors.NewConcurrencyConflict("ticket state changed", map[string]any{
				"expected_state": in.ExpectedState,
				"current_state":  t.State,
			})
		}
		if !op.AllowedFrom(t.State) {
			return nil, apperrors.NewInvalidTransition(string(t.State), string(op))
		}
		if err := checkPreconditions(t, op, in); err != nil {
			return nil, err
		}

		from := t.State
		applyOperation(t, op, in, now)
		entry = domain.HistoryEntry{
			FromState:            from,
			ToState:              t.State,
			ChangedAt:            now,
			ChangedBy:            actorID,
			HoursInPreviousState: domain.HoursBetween(t.StateChangedAt, now),
		}
		t.StateChangedAt = now
		return &entry, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, apperrors.NewConcurrencyConflict("ticket modified concurrently", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}

	entry.TicketID = updated.ID
	message := transitionMessage(updated, op, entry.FromState)
	s.metrics.RecordTransition(string(op), string(entry.FromState), string(entry.ToState))
	s.logger.Info("ticket transition",
		zap.String("ticket_id", updated.ID),
		zap.String("ticket_number", updated.Number),
		zap.String("operation", string(op)),
		zap.String("from", string(entry.FromState)),
		zap.String("to", string(entry.ToState)),
		zap.String("actor", actorID))

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketStateChanged,
		TicketID:     updated.ID,
		TicketNumber: updated.Number,
		ActorID:      actorID,
		Timestamp:    now,
		Message:      message,
		Payload: events.TicketStateChangedPayload{
			Operation: op,
			From:      entry.FromState,
			To:        entry.ToState,
		},
	})
	if op == domain.OpAssign && updated.ManagerID != nil {
		s.publishEvent(ctx, events.Event{
			Type:         events.EventTicketAssigned,
			TicketID:     updated.ID,
			TicketNumber: updated.Number,
			ActorID:      actorID,
			Timestamp:    now,
			Payload:      events.TicketAssignedPayload{ManagerID: *updated.ManagerID},
		})
	}
	return &TransitionResult{Ticket: updated, Entry: entry, Message: message}, nil
}

// checkPreconditions runs before any field is touched so a rejection leaves the ticket
// unchanged.
func checkPreconditions(t *domain.Ticket, op domain.Operation, in TransitionInput) error {
	switch op {
	case domain.OpAssign:
		if nonEmpty(in.ManagerID) == nil && !t.HasManager() {
			return apperrors.NewPreconditionError("manager required before assignment", map[string]any{"missing": "manager_id"})
		}
	case domain.OpResolve:
		if strings.TrimSpace(in.ResolutionText) == "" && strings.TrimSpace(t.ResolutionText) == "" {
			return apperrors.NewPreconditionError("resolution text required before resolving", map[string]any{"missing": "resolution_text"})
		}
	}
	return nil
}

// applyOperation moves t to op's target state. Milestone timestamps are stamped only
// when unset; reopen is the one operation that clears them.
func applyOperation(t *domain.Ticket, op domain.Operation, in TransitionInput, now time.Time) {
	switch op {
	case domain.OpAssign:
		if id := nonEmpty(in.ManagerID); id != nil {
			t.ManagerID = id
		}
		if t.AssignedAt == nil {
			t.AssignedAt = timePtr(now)
		}
	case domain.OpStartWork:
		if t.StartedAt == nil {
			t.StartedAt = timePtr(now)
		}
	case domain.OpResolve:
		if text := strings.TrimSpace(in.ResolutionText); text != "" {
			t.ResolutionText = text
		}
		if t.ResolvedAt == nil {
			t.ResolvedAt = timePtr(now)
		}
		t.ResolutionHours = domain.ResolutionHours(t)
	case domain.OpClose:
		if t.ClosedAt == nil {
			t.ClosedAt = timePtr(now)
		}
	case domain.OpReopen:
		t.ResolvedAt = nil
		t.ClosedAt = nil
		t.ResolutionHours = 0
	}
	t.State = op.Target()
}

func transitionMessage(t *domain.Ticket, op domain.Operation, from domain.TicketState) string {
	switch op {
	case domain.OpAssign:
		manager := ""
		if t.ManagerID != nil {
			manager = *t.ManagerID
		}
		return fmt.Sprintf("Request %s assigned to %s", t.Number, manager)
	case domain.OpResolve:
		return fmt.Sprintf("Request %s resolved: %s", t.Number, t.ResolutionText)
	case domain.OpReopen:
		return fmt.Sprintf("Request %s reopened from %s", t.Number, from)
	default:
		return fmt.Sprintf("Request %s moved from %s to %s", t.Number, from, t.State)
	}
}

// Get returns the ticket with derived fields computed now.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*TicketView, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	view := s.view(ticket, s.clock.Now())
	return &view, nil
}

// GetByNumber looks a ticket up by its human-readable number.
func (s *TicketService) GetByNumber(ctx context.Context, number string) (*TicketView, error) {
	ticket, err := s.tickets.GetByNumber(ctx, number)
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"number": number})
	}
	view := s.view(ticket, s.clock.Now())
	return &view, nil
}

// Describe attaches the derived fields computed at the current time.
func (s *TicketService) Describe(t *domain.Ticket) *TicketView {
	view := s.view(t, s.clock.Now())
	return &view
}

func (s *TicketService) view(t *domain.Ticket, now time.Time) TicketView {
	return TicketView{
		Ticket:     t,
		Metrics:    domain.ComputeMetrics(t, now),
		Operations: domain.AvailableOperations(t.State),
	}
}

// HistoryView is the audit log of one ticket.
type HistoryView struct {
	Entries     []domain.HistoryEntry
	TimeInState map[domain.TicketState]float64
}

// ListHistory returns the ticket's log in commit order.
func (s *TicketService) ListHistory(ctx context.Context, ticketID string) (*HistoryView, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	entries, err := s.tickets.ListHistory(ctx, ticketID)
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket history", nil)
	}
	return &HistoryView{
		Entries:     entries,
		TimeInState: domain.TimeInState(entries, s.clock.Now()),
	}, nil
}

// TicketDetailsInput lists editable descriptive fields; nil leaves a field as is.
type TicketDetailsInput struct {
	Title         *string
	Description   *string
	Subcategory   *string
	ManagerID     *string
	SupervisorID  *string
	DueAt         *time.Time
	ClearDueAt    bool
	EstimatedCost *float64
	ActualCost    *float64
}

// UpdateDetails edits descriptive fields. State, ticket number, requester and
// lifecycle timestamps are never touched here.
func (s *TicketService) UpdateDetails(ctx context.Context, ticketID, actorID string, in TicketDetailsInput) (*domain.Ticket, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, apperrors.NewValidationError("actor required", nil)
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, apperrors.NewValidationError("title must not be empty", nil)
	}
	if (in.EstimatedCost != nil && *in.EstimatedCost < 0) || (in.ActualCost != nil && *in.ActualCost < 0) {
		return nil, apperrors.NewValidationError("costs must not be negative", nil)
	}

	updated, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) (*domain.HistoryEntry, error) {
		if in.Title != nil {
			t.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			t.Description = strings.TrimSpace(*in.Description)
		}
		if in.Subcategory != nil {
			t.Subcategory = strings.TrimSpace(*in.Subcategory)
		}
		if in.ManagerID != nil {
			t.ManagerID = nonEmpty(in.ManagerID)
			if t.ManagerID == nil && managedState(t.State) {
				return nil, apperrors.NewPreconditionError("manager cannot be cleared while the ticket is being handled", map[string]any{
					"state": string(t.State),
				})
			}
		}
		if in.SupervisorID != nil {
			t.SupervisorID = nonEmpty(in.SupervisorID)
		}
		if in.ClearDueAt {
			t.DueAt = nil
		} else if in.DueAt != nil {
			t.DueAt = timePtr(*in.DueAt)
		}
		if in.EstimatedCost != nil {
			t.EstimatedCost = *in.EstimatedCost
		}
		if in.ActualCost != nil {
			t.ActualCost = *in.ActualCost
		}
		if err := t.ValidateSchedule(); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, apperrors.NewConcurrencyConflict("ticket modified concurrently", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	s.logger.Info("ticket details updated", zap.String("ticket_id", updated.ID), zap.String("actor", actorID))
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketUpdated,
		TicketID:     updated.ID,
		TicketNumber: updated.Number,
		ActorID:      actorID,
	})
	return updated, nil
}

// managedState reports whether the ticket is in the hands of a manager.
func managedState(state domain.TicketState) bool {
	switch state {
	case domain.StateAssigned, domain.StateInProgress, domain.StateAwaitingReply:
		return true
	}
	return false
}

// Delete removes the ticket and everything it owns.
func (s *TicketService) Delete(ctx context.Context, ticketID, actorID string) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	s.logger.Info("ticket deleted", zap.String("ticket_id", ticketID), zap.String("actor", actorID))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		ActorID:  actorID,
	})
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func nonEmpty(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func timePtr(t time.Time) *time.Time {
	return &t
}
