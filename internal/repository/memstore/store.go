// Package memstore keeps tickets, history and catalog rows in process memory. It backs
// the service when no Postgres DSN is configured and serves as the test store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/query"
	"github.com/spec-kit/solicitud-service/internal/repository"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// Store implements every repository interface behind one mutex, which serializes
// ticket updates the way row locks do in Postgres.
type Store struct {
	mu sync.Mutex

	tickets  map[string]*domain.Ticket
	numbers  map[string]string
	history  map[string][]domain.HistoryEntry
	comments map[string][]domain.TicketComment
	surveys  map[string][]domain.SatisfactionSurvey

	priorities  map[string]domain.Priority
	departments map[string]domain.Department
	materials   map[string]domain.MaterialType
	providers   map[string]domain.Provider

	now func() time.Time
}

var (
	_ repository.TicketRepository        = (*Store)(nil)
	_ repository.CatalogRepository       = (*Store)(nil)
	_ repository.TicketCommentRepository = (*Store)(nil)
)

// New returns an empty store.
func New() *Store {
	return &Store{
		tickets:     make(map[string]*domain.Ticket),
		numbers:     make(map[string]string),
		history:     make(map[string][]domain.HistoryEntry),
		comments:    make(map[string][]domain.TicketComment),
		surveys:     make(map[string][]domain.SatisfactionSurvey),
		priorities:  make(map[string]domain.Priority),
		departments: make(map[string]domain.Department),
		materials:   make(map[string]domain.MaterialType),
		providers:   make(map[string]domain.Provider),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Create(ctx context.Context, ticket *domain.Ticket, created *domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.numbers[ticket.Number]; exists {
		return apperrors.NewConflict("ticket number already issued", map[string]any{"number": ticket.Number})
	}
	ticket.ID = uuid.NewString()
	ticket.Number = strings.Clone(ticket.Number)
	ticket.Version = 1
	ticket.CreatedAt = s.now()
	ticket.UpdatedAt = ticket.CreatedAt
	s.tickets[ticket.ID] = ticket.Clone()
	s.numbers[ticket.Number] = ticket.ID

	if created != nil {
		created.TicketID = ticket.ID
		created.ID = uuid.NewString()
		s.history[ticket.ID] = append(s.history[ticket.ID], *created)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return ticket.Clone(), nil
}

func (s *Store) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.numbers[number]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return ticket.Clone(), nil
}

func (s *Store) Update(ctx context.Context, id string, mutate repository.TicketMutation) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	working := current.Clone()
	entry, err := mutate(working)
	if err != nil {
		return nil, err
	}
	// Callers may pass ids that alias request buffers; stored keys always come from
	// the ticket itself.
	key := current.ID
	working.ID = key
	working.Number = current.Number
	working.Version = current.Version + 1
	working.UpdatedAt = s.now()
	s.tickets[key] = working

	if entry != nil {
		entry.TicketID = key
		entry.ID = uuid.NewString()
		s.history[key] = append(s.history[key], *entry)
	}
	return working.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(s.numbers, ticket.Number)
	delete(s.tickets, id)
	delete(s.history, id)
	delete(s.comments, id)
	delete(s.surveys, id)
	return nil
}

func (s *Store) Search(ctx context.Context, pred query.Predicate, orders []query.Order, limit, offset int) ([]domain.Ticket, error) {
	matched, err := s.matching(pred)
	if err != nil {
		return nil, err
	}
	query.SortTickets(matched, orders)
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []domain.Ticket{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *Store) Count(ctx context.Context, pred query.Predicate) (int, error) {
	matched, err := s.matching(pred)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (s *Store) matching(pred query.Predicate) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		ok, err := query.Match(pred, ticket)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, *ticket.Clone())
		}
	}
	return out, nil
}

func (s *Store) Aggregate(ctx context.Context) (repository.TicketAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg := repository.TicketAggregate{ByState: make(map[domain.TicketState]int)}
	var resolvedHours, scoreSum float64
	var resolved int
	for _, ticket := range s.tickets {
		agg.ByState[ticket.State]++
		agg.Total++
		if ticket.ResolvedAt != nil {
			resolvedHours += domain.ResolutionHours(ticket)
			resolved++
		}
		if ticket.SatisfactionScore != nil {
			scoreSum += float64(*ticket.SatisfactionScore)
			agg.RatedTickets++
		}
	}
	if resolved > 0 {
		agg.AverageResolutionHours = resolvedHours / float64(resolved)
	}
	if agg.RatedTickets > 0 {
		agg.AverageSatisfaction = scoreSum / float64(agg.RatedTickets)
	}
	return agg, nil
}

func (s *Store) ListHistory(ctx context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append([]domain.HistoryEntry(nil), s.history[ticketID]...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ChangedAt.Before(entries[j].ChangedAt)
	})
	return entries, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *domain.TicketComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[comment.TicketID]; !ok {
		return pgx.ErrNoRows
	}
	comment.ID = uuid.NewString()
	comment.TicketID = strings.Clone(comment.TicketID)
	s.comments[comment.TicketID] = append(s.comments[comment.TicketID], *comment)
	return nil
}

func (s *Store) ListComments(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TicketComment(nil), s.comments[ticketID]...), nil
}

func (s *Store) CreateSurvey(ctx context.Context, survey *domain.SatisfactionSurvey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[survey.TicketID]; !ok {
		return pgx.ErrNoRows
	}
	survey.ID = uuid.NewString()
	survey.TicketID = strings.Clone(survey.TicketID)
	s.surveys[survey.TicketID] = append(s.surveys[survey.TicketID], *survey)
	return nil
}

func (s *Store) ListSurveys(ctx context.Context, ticketID string) ([]domain.SatisfactionSurvey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SatisfactionSurvey(nil), s.surveys[ticketID]...), nil
}
