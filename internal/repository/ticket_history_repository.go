package repository

import (
	"context"

	"github.com/spec-kit/solicitud-service/internal/domain"
)

func insertHistory(ctx context.Context, q queryer, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, from_state, to_state, changed_at, changed_by, hours_in_previous_state)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	return q.QueryRow(ctx, query,
		entry.TicketID,
		string(entry.FromState),
		string(entry.ToState),
		entry.ChangedAt,
		entry.ChangedBy,
		entry.HoursInPreviousState,
	).Scan(&entry.ID)
}

func (r *ticketRepository) ListHistory(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT id, ticket_id, from_state, to_state, changed_at, changed_by, hours_in_previous_state
        FROM ticket_history WHERE ticket_id=$1 ORDER BY changed_at ASC, seq ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var (
			entry    domain.HistoryEntry
			from, to string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&from,
			&to,
			&entry.ChangedAt,
			&entry.ChangedBy,
			&entry.HoursInPreviousState,
		); err != nil {
			return nil, err
		}
		entry.FromState = domain.TicketState(from)
		entry.ToState = domain.TicketState(to)
		result = append(result, entry)
	}
	return result, rows.Err()
}
