package service

import (
	"context"
	"strings"

	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/query"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// TicketFilter describes listing filters. Zero values mean "any".
type TicketFilter struct {
	States           []domain.TicketState
	Category         domain.TicketCategory
	DepartmentID     string
	ManagerID        string
	RequesterID      string
	MinPriorityLevel int
	// OverdueOp and OverdueValue filter on the derived is_overdue flag. Only equality
	// operators are accepted.
	OverdueOp    query.Operator
	OverdueValue any
	Limit        int
	Offset       int
}

// SearchResult is one page of tickets plus the total match count.
type SearchResult struct {
	Items []TicketView
	Total int
}

// Search lists tickets by priority then age.
func (s *TicketService) Search(ctx context.Context, filter TicketFilter) (*SearchResult, error) {
	pred, err := s.buildPredicate(filter)
	if err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	tickets, err := s.tickets.Search(ctx, pred, query.DefaultOrder, limit, offset)
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket", nil)
	}
	total, err := s.tickets.Count(ctx, pred)
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket", nil)
	}

	now := s.clock.Now()
	items := make([]TicketView, 0, len(tickets))
	for i := range tickets {
		items = append(items, s.view(&tickets[i], now))
	}
	return &SearchResult{Items: items, Total: total}, nil
}

func (s *TicketService) buildPredicate(filter TicketFilter) (query.Predicate, error) {
	preds := query.And{}
	if len(filter.States) > 0 {
		for _, state := range filter.States {
			if !state.Valid() {
				return nil, apperrors.NewValidationError("unknown state", map[string]any{"state": state})
			}
		}
		preds = append(preds, query.In(query.FieldState, filter.States...))
	}
	if filter.Category != "" {
		if !filter.Category.Valid() {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": filter.Category})
		}
		preds = append(preds, query.Eq(query.FieldCategory, filter.Category))
	}
	if id := strings.TrimSpace(filter.DepartmentID); id != "" {
		preds = append(preds, query.Eq(query.FieldDepartmentID, id))
	}
	if id := strings.TrimSpace(filter.ManagerID); id != "" {
		preds = append(preds, query.Eq(query.FieldManagerID, id))
	}
	if id := strings.TrimSpace(filter.RequesterID); id != "" {
		preds = append(preds, query.Eq(query.FieldRequesterID, id))
	}
	if filter.MinPriorityLevel != 0 {
		if !domain.ValidLevel(filter.MinPriorityLevel) {
			return nil, apperrors.NewValidationError("priority level out of range", map[string]any{"priority_level": filter.MinPriorityLevel})
		}
		preds = append(preds, query.Gte(query.FieldPriorityLevel, filter.MinPriorityLevel))
	}
	if filter.OverdueOp != "" || filter.OverdueValue != nil {
		op := filter.OverdueOp
		if op == "" {
			op = query.OpEq
		}
		overdue, err := s.overdue.Translate(op, filter.OverdueValue)
		if err != nil {
			return nil, err
		}
		preds = append(preds, overdue)
	}
	return preds, nil
}

// Overdue lists every overdue ticket in default order.
func (s *TicketService) Overdue(ctx context.Context, limit, offset int) (*SearchResult, error) {
	return s.Search(ctx, TicketFilter{OverdueOp: query.OpEq, OverdueValue: true, Limit: limit, Offset: offset})
}
