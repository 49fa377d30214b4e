package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/events"
	"github.com/spec-kit/solicitud-service/internal/repository"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// AddComment appends a comment to a ticket's thread.
func (s *TicketService) AddComment(ctx context.Context, ticketID, actorID, body string) (*domain.TicketComment, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, apperrors.NewValidationError("actor required", nil)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}

	comment := &domain.TicketComment{
		TicketID:  ticket.ID,
		AuthorID:  actorID,
		Body:      body,
		CreatedAt: s.clock.Now(),
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCommentAdded,
		TicketID:     ticket.ID,
		TicketNumber: ticket.Number,
		ActorID:      actorID,
		Message:      fmt.Sprintf("New comment on request %s", ticket.Number),
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			BodyPreview: stringPreview(body, 120),
		},
	})
	return comment, nil
}

// ListComments returns the thread oldest first.
func (s *TicketService) ListComments(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	comments, err := s.comments.ListComments(ctx, ticketID)
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket comments", nil)
	}
	return comments, nil
}

// RateSatisfaction records the requester's score once the ticket is resolved or closed.
// The score lands on the ticket under its row lock; the survey record follows.
func (s *TicketService) RateSatisfaction(ctx context.Context, ticketID, actorID string, score int, comment string) (*domain.SatisfactionSurvey, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, apperrors.NewValidationError("actor required", nil)
	}
	if score < domain.MinSatisfactionScore || score > domain.MaxSatisfactionScore {
		return nil, apperrors.NewValidationError("score must be between 1 and 5", map[string]any{"score": score})
	}

	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) (*domain.HistoryEntry, error) {
		if t.State != domain.StateResolved && t.State != domain.StateClosed {
			return nil, apperrors.NewPreconditionError("satisfaction can only be rated after resolution", map[string]any{
				"state": t.State,
			})
		}
		rated := score
		t.SatisfactionScore = &rated
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, apperrors.NewConcurrencyConflict("ticket modified concurrently", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}

	survey := &domain.SatisfactionSurvey{
		TicketID:     ticket.ID,
		RespondentID: actorID,
		Score:        score,
		Comment:      strings.TrimSpace(comment),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.comments.CreateSurvey(ctx, survey); err != nil {
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	s.logger.Info("ticket rated", zap.String("ticket_id", ticket.ID), zap.Int("score", score))
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketRated,
		TicketID:     ticket.ID,
		TicketNumber: ticket.Number,
		ActorID:      actorID,
		Message:      fmt.Sprintf("Request %s rated %d/5", ticket.Number, score),
		Payload:      events.TicketRatedPayload{Score: score},
	})
	return survey, nil
}

// ListSurveys returns the surveys recorded for a ticket.
func (s *TicketService) ListSurveys(ctx context.Context, ticketID string) ([]domain.SatisfactionSurvey, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, apperrors.FromStore(err, "ticket", map[string]any{"ticket_id": ticketID})
	}
	surveys, err := s.comments.ListSurveys(ctx, ticketID)
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket surveys", nil)
	}
	return surveys, nil
}

func stringPreview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
