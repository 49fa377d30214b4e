package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/clock"
	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/events"
	"github.com/spec-kit/solicitud-service/internal/query"
	"github.com/spec-kit/solicitud-service/internal/repository"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

const statsCacheKey = "solicitudes:stats"

// Statistics summarizes the request desk.
type Statistics struct {
	ByState                map[domain.TicketState]int `json:"by_state"`
	Total                  int                        `json:"total"`
	Overdue                int                        `json:"overdue"`
	AverageResolutionHours float64                    `json:"average_resolution_hours"`
	AverageSatisfaction    float64                    `json:"average_satisfaction"`
	RatedTickets           int                        `json:"rated_tickets"`
	GeneratedAt            time.Time                  `json:"generated_at"`
}

// StatsService computes statistics and caches them in Redis when available.
type StatsService struct {
	tickets repository.TicketRepository
	overdue *query.OverdueQuery
	clock   clock.Clock
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

// NewStatsService constructs the service. cache may be nil.
func NewStatsService(tickets repository.TicketRepository, c clock.Clock, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *StatsService {
	if c == nil {
		c = clock.System()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		tickets: tickets,
		overdue: query.NewOverdueQuery(c),
		clock:   c,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Get returns cached statistics, recomputing them on a miss. Cache failures degrade to
// a direct computation.
func (s *StatsService) Get(ctx context.Context) (*Statistics, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}
	stats, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, stats)
	return stats, nil
}

// Compute aggregates statistics straight from the store.
func (s *StatsService) Compute(ctx context.Context) (*Statistics, error) {
	agg, err := s.tickets.Aggregate(ctx)
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket", nil)
	}
	overdue, err := s.tickets.Count(ctx, s.overdue.BuildOverdueFilter(true))
	if err != nil {
		return nil, apperrors.FromStore(err, "ticket", nil)
	}
	return &Statistics{
		ByState:                agg.ByState,
		Total:                  agg.Total,
		Overdue:                overdue,
		AverageResolutionHours: agg.AverageResolutionHours,
		AverageSatisfaction:    agg.AverageSatisfaction,
		RatedTickets:           agg.RatedTickets,
		GeneratedAt:            s.clock.Now(),
	}, nil
}

// Invalidate drops the cached statistics.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

// RegisterHandlers invalidates the cache whenever tickets change.
func (s *StatsService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil || s.cache == nil {
		return
	}
	invalidate := func(ctx context.Context, _ events.Event) error {
		s.Invalidate(ctx)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStateChanged,
		events.EventTicketRated,
		events.EventTicketDeleted,
		events.EventTicketUpdated,
	} {
		dispatcher.Subscribe(eventType, invalidate)
	}
}

func (s *StatsService) fromCache(ctx context.Context) (*Statistics, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var stats Statistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("stats cache entry unreadable", zap.Error(err))
		return nil, false
	}
	return &stats, true
}

func (s *StatsService) store(ctx context.Context, stats *Statistics) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
}
