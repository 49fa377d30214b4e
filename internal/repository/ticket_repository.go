package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/query"
)

// ErrVersionMismatch is returned when a row changed between read and write.
var ErrVersionMismatch = errors.New("ticket version changed during update")

// TicketMutation edits a locked ticket in place and returns the history entry to append
// in the same transaction, or nil when the edit is not a state transition. Returning an
// error aborts the whole update.
type TicketMutation func(ticket *domain.Ticket) (*domain.HistoryEntry, error)

// TicketAggregate summarizes the ticket table for statistics.
type TicketAggregate struct {
	ByState                map[domain.TicketState]int
	Total                  int
	AverageResolutionHours float64
	AverageSatisfaction    float64
	RatedTickets           int
}

// TicketRepository encapsulates ticket and history persistence.
type TicketRepository interface {
	// Create persists a new ticket together with its creation history entry.
	Create(ctx context.Context, ticket *domain.Ticket, created *domain.HistoryEntry) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	// Update locks the ticket, applies mutate and appends its history entry atomically.
	Update(ctx context.Context, id string, mutate TicketMutation) (*domain.Ticket, error)
	// Delete removes the ticket and every history entry it owns.
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, pred query.Predicate, orders []query.Order, limit, offset int) ([]domain.Ticket, error)
	Count(ctx context.Context, pred query.Predicate) (int, error)
	Aggregate(ctx context.Context) (TicketAggregate, error)
	ListHistory(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error)
}

// queryer is satisfied by both the pool and a transaction.
type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, number, title, description, category, subcategory,
               state, state_changed_at, requested_at, assigned_at, started_at, due_at, resolved_at, closed_at,
               requester_id, manager_id, supervisor_id, department_id, priority_id, priority_level,
               material_type_id, provider_id, resolution_text, estimated_cost, actual_cost,
               satisfaction_score, resolution_hours, version, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket, created *domain.HistoryEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO tickets (number, title, description, category, subcategory, state, state_changed_at,
            requested_at, due_at, requester_id, manager_id, supervisor_id, department_id, priority_id,
            priority_level, material_type_id, provider_id, estimated_cost, version)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,1)
        RETURNING id, version, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.Number,
		ticket.Title,
		ticket.Description,
		string(ticket.Category),
		ticket.Subcategory,
		string(ticket.State),
		ticket.StateChangedAt,
		ticket.RequestedAt,
		ticket.DueAt,
		ticket.RequesterID,
		ticket.ManagerID,
		ticket.SupervisorID,
		ticket.DepartmentID,
		ticket.PriorityID,
		ticket.PriorityLevel,
		ticket.MaterialTypeID,
		ticket.ProviderID,
		ticket.EstimatedCost,
	).Scan(&ticket.ID, &ticket.Version, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	if created != nil {
		created.TicketID = ticket.ID
		if err := insertHistory(ctx, tx, created); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return fetchSingle(ctx, r.pool, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	return fetchSingle(ctx, r.pool, `SELECT `+ticketColumns+` FROM tickets WHERE number=$1`, number)
}

func (r *ticketRepository) Update(ctx context.Context, id string, mutate TicketMutation) (*domain.Ticket, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// NOWAIT turns a concurrent transition into a lock-not-available error instead of
	// queueing behind it with a stale view.
	ticket, err := fetchSingle(ctx, tx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1 FOR UPDATE NOWAIT`, id)
	if err != nil {
		return nil, err
	}
	prevVersion := ticket.Version

	entry, err := mutate(ticket)
	if err != nil {
		return nil, err
	}

	const query = `
        UPDATE tickets SET title=$1, description=$2, category=$3, subcategory=$4, state=$5,
            state_changed_at=$6, assigned_at=$7, started_at=$8, due_at=$9, resolved_at=$10, closed_at=$11,
            manager_id=$12, supervisor_id=$13, department_id=$14, priority_id=$15, priority_level=$16,
            material_type_id=$17, provider_id=$18, resolution_text=$19, estimated_cost=$20, actual_cost=$21,
            satisfaction_score=$22, resolution_hours=$23, version=version+1, updated_at=NOW()
        WHERE id=$24 AND version=$25
        RETURNING version, updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		string(ticket.Category),
		ticket.Subcategory,
		string(ticket.State),
		ticket.StateChangedAt,
		ticket.AssignedAt,
		ticket.StartedAt,
		ticket.DueAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ManagerID,
		ticket.SupervisorID,
		ticket.DepartmentID,
		ticket.PriorityID,
		ticket.PriorityLevel,
		ticket.MaterialTypeID,
		ticket.ProviderID,
		ticket.ResolutionText,
		ticket.EstimatedCost,
		ticket.ActualCost,
		ticket.SatisfactionScore,
		ticket.ResolutionHours,
		ticket.ID,
		prevVersion,
	).Scan(&ticket.Version, &ticket.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVersionMismatch
		}
		return nil, err
	}

	if entry != nil {
		entry.TicketID = ticket.ID
		if err := insertHistory(ctx, tx, entry); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Search(ctx context.Context, pred query.Predicate, orders []query.Order, limit, offset int) ([]domain.Ticket, error) {
	args := []any{}
	where, err := query.ToSQL(pred, &args)
	if err != nil {
		return nil, err
	}
	orderBy, err := query.OrderSQL(orders)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	sql := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		ticketColumns, where, orderBy, limit, offset)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Count(ctx context.Context, pred query.Predicate) (int, error) {
	args := []any{}
	where, err := query.ToSQL(pred, &args)
	if err != nil {
		return 0, err
	}
	var count int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE `+where, args...).Scan(&count)
	return count, err
}

func (r *ticketRepository) Aggregate(ctx context.Context) (TicketAggregate, error) {
	agg := TicketAggregate{ByState: make(map[domain.TicketState]int)}

	rows, err := r.pool.Query(ctx, `SELECT state, COUNT(*) FROM tickets GROUP BY state`)
	if err != nil {
		return agg, err
	}
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			rows.Close()
			return agg, err
		}
		agg.ByState[domain.TicketState(state)] = count
		agg.Total += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return agg, err
	}

	const averages = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - requested_at)) / 3600.0) FILTER (WHERE resolved_at IS NOT NULL), 0),
               COALESCE(AVG(satisfaction_score) FILTER (WHERE satisfaction_score IS NOT NULL), 0),
               COUNT(*) FILTER (WHERE satisfaction_score IS NOT NULL)
        FROM tickets`
	err = r.pool.QueryRow(ctx, averages).Scan(&agg.AverageResolutionHours, &agg.AverageSatisfaction, &agg.RatedTickets)
	return agg, err
}

func fetchSingle(ctx context.Context, q queryer, sql string, arg any) (*domain.Ticket, error) {
	ticket, err := scanTicket(q.QueryRow(ctx, sql, arg))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		category string
		state    string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Number,
		&ticket.Title,
		&ticket.Description,
		&category,
		&ticket.Subcategory,
		&state,
		&ticket.StateChangedAt,
		&ticket.RequestedAt,
		&ticket.AssignedAt,
		&ticket.StartedAt,
		&ticket.DueAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.RequesterID,
		&ticket.ManagerID,
		&ticket.SupervisorID,
		&ticket.DepartmentID,
		&ticket.PriorityID,
		&ticket.PriorityLevel,
		&ticket.MaterialTypeID,
		&ticket.ProviderID,
		&ticket.ResolutionText,
		&ticket.EstimatedCost,
		&ticket.ActualCost,
		&ticket.SatisfactionScore,
		&ticket.ResolutionHours,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Category = domain.TicketCategory(category)
	ticket.State = domain.TicketState(state)
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
