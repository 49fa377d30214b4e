package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solicitud-service/internal/api/dto"
	"github.com/spec-kit/solicitud-service/internal/auth"
	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/query"
	"github.com/spec-kit/solicitud-service/internal/service"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// TicketsHandler exposes ticket CRUD and search.
type TicketsHandler struct {
	service     *service.TicketService
	assignments *service.AssignmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, assignments *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{service: ticketService, assignments: assignments}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	// Requesters always file on their own behalf.
	if principal.Role == domain.RoleRequester {
		req.RequesterID = principal.ActorID
	}

	ticket, err := h.service.Create(c.UserContext(), principal.ActorID, service.TicketCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Subcategory:    req.Subcategory,
		RequesterID:    req.RequesterID,
		DepartmentID:   req.DepartmentID,
		PriorityID:     req.PriorityID,
		ManagerID:      req.ManagerID,
		SupervisorID:   req.SupervisorID,
		MaterialTypeID: req.MaterialTypeID,
		ProviderID:     req.ProviderID,
		DueAt:          req.DueAt,
		EstimatedCost:  req.EstimatedCost,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(h.service.Describe(ticket))})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	if principal.Role == domain.RoleRequester {
		filter.RequesterID = principal.ActorID
	}
	result, err := h.service.Search(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketList(result, filter)})
}

// ListOverdue GET /tickets/overdue.
func (h *TicketsHandler) ListOverdue(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 0)
	offset := parseInt(c.Query("offset"), 0)
	result, err := h.service.Overdue(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketList(result, service.TicketFilter{Limit: limit, Offset: offset})})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := checkOwner(principal, view.Ticket); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(view)})
}

// GetTicketByNumber GET /tickets/number/:number.
func (h *TicketsHandler) GetTicketByNumber(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetByNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return err
	}
	if err := checkOwner(principal, view.Ticket); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(view)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateDetails(c.UserContext(), c.Params("id"), principal.ActorID, service.TicketDetailsInput{
		Title:         req.Title,
		Description:   req.Description,
		Subcategory:   req.Subcategory,
		ManagerID:     req.ManagerID,
		SupervisorID:  req.SupervisorID,
		DueAt:         req.DueAt,
		ClearDueAt:    req.ClearDueAt,
		EstimatedCost: req.EstimatedCost,
		ActualCost:    req.ActualCost,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(h.service.Describe(ticket))})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), c.Params("id"), principal.ActorID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	if err := h.authorizeTicket(c); err != nil {
		return err
	}
	history, err := h.service.ListHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	entries := make([]dto.HistoryEntryResponse, 0, len(history.Entries))
	for _, entry := range history.Entries {
		entries = append(entries, historyEntryResponse(entry))
	}
	return c.JSON(fiber.Map{"data": dto.HistoryResponse{Entries: entries, TimeInState: history.TimeInState}})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.authorizeTicket(c); err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.UserContext(), c.Params("id"), principal.ActorID, req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(*comment)})
}

// ListComments GET /tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	if err := h.authorizeTicket(c); err != nil {
		return err
	}
	comments, err := h.service.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, commentResponse(comment))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RateTicket POST /tickets/:id/surveys.
func (h *TicketsHandler) RateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.authorizeTicket(c); err != nil {
		return err
	}
	var req dto.CreateSurveyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	survey, err := h.service.RateSatisfaction(c.UserContext(), c.Params("id"), principal.ActorID, req.Score, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": surveyResponse(*survey)})
}

// ListSurveys GET /tickets/:id/surveys.
func (h *TicketsHandler) ListSurveys(c *fiber.Ctx) error {
	if err := h.authorizeTicket(c); err != nil {
		return err
	}
	surveys, err := h.service.ListSurveys(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.SurveyResponse, 0, len(surveys))
	for _, survey := range surveys {
		items = append(items, surveyResponse(survey))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Transition returns the handler for POST /tickets/:id/<operation>.
func (h *TicketsHandler) Transition(op domain.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := requirePrincipal(c)
		if err != nil {
			return err
		}
		if err := h.authorizeTicket(c); err != nil {
			return err
		}
		var req dto.TransitionRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return apperrors.NewValidationError("invalid payload", nil)
			}
		}
		result, err := h.service.Transition(c.UserContext(), c.Params("id"), principal.ActorID, op, service.TransitionInput{
			ExpectedState:  req.ExpectedState,
			ManagerID:      req.ManagerID,
			ResolutionText: req.ResolutionText,
		})
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": h.transitionResponse(result)})
	}
}

// AutoAssign POST /tickets/:id/auto-assign.
func (h *TicketsHandler) AutoAssign(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	result, err := h.assignments.AutoAssign(c.UserContext(), c.Params("id"), principal.ActorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.transitionResponse(result)})
}

func (h *TicketsHandler) transitionResponse(result *service.TransitionResult) dto.TransitionResponse {
	return dto.TransitionResponse{
		Ticket:  ticketResponse(h.service.Describe(result.Ticket)),
		Entry:   historyEntryResponse(result.Entry),
		Message: result.Message,
	}
}

// authorizeTicket loads the ticket named by :id for requesters and rejects it unless
// they filed it. Staff roles see every ticket.
func (h *TicketsHandler) authorizeTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if principal.Role != domain.RoleRequester {
		return nil
	}
	view, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return checkOwner(principal, view.Ticket)
}

func checkOwner(principal *auth.Principal, ticket *domain.Ticket) error {
	if principal.Role == domain.RoleRequester && ticket.RequesterID != principal.ActorID {
		return apperrors.NewForbidden("ticket belongs to another requester")
	}
	return nil
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func parseTicketFilter(c *fiber.Ctx) (service.TicketFilter, error) {
	filter := service.TicketFilter{
		Category:     domain.TicketCategory(c.Query("category")),
		DepartmentID: c.Query("department_id"),
		ManagerID:    c.Query("manager_id"),
		RequesterID:  c.Query("requester_id"),
		Limit:        parseInt(c.Query("limit"), 0),
		Offset:       parseInt(c.Query("offset"), 0),
	}
	if states := c.Query("state"); states != "" {
		for _, part := range strings.Split(states, ",") {
			filter.States = append(filter.States, domain.TicketState(strings.TrimSpace(part)))
		}
	}
	if level := c.Query("min_priority_level"); level != "" {
		parsed, err := strconv.Atoi(level)
		if err != nil {
			return filter, apperrors.NewValidationError("min_priority_level must be a number", nil)
		}
		filter.MinPriorityLevel = parsed
	}
	if overdue := c.Query("is_overdue"); overdue != "" {
		filter.OverdueValue = overdue
		filter.OverdueOp = query.Operator(c.Query("is_overdue_op", string(query.OpEq)))
	}
	return filter, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func ticketList(result *service.SearchResult, filter service.TicketFilter) dto.TicketListResponse {
	items := make([]dto.TicketResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, ticketResponse(&result.Items[i]))
	}
	return dto.TicketListResponse{Items: items, Total: result.Total, Limit: filter.Limit, Offset: filter.Offset}
}

func ticketResponse(view *service.TicketView) dto.TicketResponse {
	t := view.Ticket
	return dto.TicketResponse{
		ID:                t.ID,
		Number:            t.Number,
		Title:             t.Title,
		Description:       t.Description,
		Category:          t.Category,
		Subcategory:       t.Subcategory,
		State:             t.State,
		RequestedAt:       t.RequestedAt,
		AssignedAt:        t.AssignedAt,
		StartedAt:         t.StartedAt,
		DueAt:             t.DueAt,
		ResolvedAt:        t.ResolvedAt,
		ClosedAt:          t.ClosedAt,
		RequesterID:       t.RequesterID,
		ManagerID:         t.ManagerID,
		SupervisorID:      t.SupervisorID,
		DepartmentID:      t.DepartmentID,
		PriorityID:        t.PriorityID,
		PriorityLevel:     t.PriorityLevel,
		MaterialTypeID:    t.MaterialTypeID,
		ProviderID:        t.ProviderID,
		ResolutionText:    t.ResolutionText,
		EstimatedCost:     t.EstimatedCost,
		ActualCost:        t.ActualCost,
		SatisfactionScore: t.SatisfactionScore,
		ResolutionHours:   view.Metrics.ResolutionHours,
		DaysPending:       view.Metrics.DaysPending,
		IsOverdue:         view.Metrics.IsOverdue,
		ColorTier:         view.Metrics.ColorTier,
		Operations:        view.Operations,
		Version:           t.Version,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func historyEntryResponse(entry domain.HistoryEntry) dto.HistoryEntryResponse {
	return dto.HistoryEntryResponse{
		ID:                   entry.ID,
		TicketID:             entry.TicketID,
		FromState:            entry.FromState,
		ToState:              entry.ToState,
		ChangedAt:            entry.ChangedAt,
		ChangedBy:            entry.ChangedBy,
		HoursInPreviousState: entry.HoursInPreviousState,
	}
}

func commentResponse(comment domain.TicketComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}

func surveyResponse(survey domain.SatisfactionSurvey) dto.SurveyResponse {
	return dto.SurveyResponse{
		ID:           survey.ID,
		RespondentID: survey.RespondentID,
		Score:        survey.Score,
		Comment:      survey.Comment,
		CreatedAt:    survey.CreatedAt,
	}
}
