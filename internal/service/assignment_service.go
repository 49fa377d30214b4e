package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/repository"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// AssignmentService routes tickets to the manager responsible for their department.
type AssignmentService struct {
	tickets *TicketService
	catalog repository.CatalogRepository
	logger  *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(tickets *TicketService, catalog repository.CatalogRepository, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{tickets: tickets, catalog: catalog, logger: logger}
}

// AutoAssign assigns the ticket to its department's responsible user. The assignment is
// guarded by the state observed here, so a ticket that moved in the meantime yields a
// concurrency conflict instead of a surprise assignment.
func (s *AssignmentService) AutoAssign(ctx context.Context, ticketID, actorID string) (*TransitionResult, error) {
	view, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ticket := view.Ticket
	if !domain.OpAssign.AllowedFrom(ticket.State) {
		return nil, apperrors.NewInvalidTransition(string(ticket.State), string(domain.OpAssign))
	}

	dept, err := s.catalog.GetDepartment(ctx, ticket.DepartmentID)
	if err != nil {
		return nil, apperrors.FromStore(err, "department", map[string]any{"department_id": ticket.DepartmentID})
	}
	responsible := nonEmpty(dept.ResponsibleID)
	if responsible == nil {
		return nil, apperrors.NewPreconditionError("department has no responsible manager", map[string]any{
			"department_id": dept.ID,
		})
	}

	result, err := s.tickets.Assign(ctx, ticketID, actorID, TransitionInput{
		ExpectedState: ticket.State,
		ManagerID:     responsible,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("ticket auto-assigned",
		zap.String("ticket_id", ticketID),
		zap.String("department_id", dept.ID),
		zap.String("manager_id", *responsible))
	return result, nil
}
