package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/solicitud-service/internal/domain"
)

// TicketCommentRepository manages ticket comments and satisfaction surveys.
type TicketCommentRepository interface {
	CreateComment(ctx context.Context, comment *domain.TicketComment) error
	ListComments(ctx context.Context, ticketID string) ([]domain.TicketComment, error)
	CreateSurvey(ctx context.Context, survey *domain.SatisfactionSurvey) error
	ListSurveys(ctx context.Context, ticketID string) ([]domain.SatisfactionSurvey, error)
}

type ticketCommentRepository struct {
	pool *pgxpool.Pool
}

// NewTicketCommentRepository builds repository.
func NewTicketCommentRepository(pool *pgxpool.Pool) TicketCommentRepository {
	return &ticketCommentRepository{pool: pool}
}

func (r *ticketCommentRepository) CreateComment(ctx context.Context, comment *domain.TicketComment) error {
	const query = `
        INSERT INTO ticket_comments (ticket_id, author_id, body, created_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
	).Scan(&comment.ID)
}

func (r *ticketCommentRepository) ListComments(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	const query = `
        SELECT id, ticket_id, author_id, body, created_at
        FROM ticket_comments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketComment
	for rows.Next() {
		var c domain.TicketComment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *ticketCommentRepository) CreateSurvey(ctx context.Context, survey *domain.SatisfactionSurvey) error {
	const query = `
        INSERT INTO satisfaction_surveys (ticket_id, respondent_id, score, comment, created_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		survey.TicketID,
		survey.RespondentID,
		survey.Score,
		survey.Comment,
		survey.CreatedAt,
	).Scan(&survey.ID)
}

func (r *ticketCommentRepository) ListSurveys(ctx context.Context, ticketID string) ([]domain.SatisfactionSurvey, error) {
	const query = `
        SELECT id, ticket_id, respondent_id, score, comment, created_at
        FROM satisfaction_surveys WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SatisfactionSurvey
	for rows.Next() {
		var s domain.SatisfactionSurvey
		if err := rows.Scan(&s.ID, &s.TicketID, &s.RespondentID, &s.Score, &s.Comment, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
