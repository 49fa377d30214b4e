// Package sequence issues human-readable ticket numbers.
package sequence

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/solicitud-service/internal/clock"
)

// Provider returns a unique ticket number per call.
type Provider interface {
	Next(ctx context.Context) (string, error)
}

// RedisProvider increments one counter per calendar year, yielding numbers like
// SOL-2026-00042. Uniqueness rests on INCR being atomic across replicas.
type RedisProvider struct {
	client  *redis.Client
	clock   clock.Clock
	prefix  string
	padding int
}

// NewRedisProvider builds a provider keyed under "sequence:<prefix>:<year>".
func NewRedisProvider(client *redis.Client, c clock.Clock, prefix string, padding int) *RedisProvider {
	if c == nil {
		c = clock.System()
	}
	if padding < 1 {
		padding = 1
	}
	return &RedisProvider{client: client, clock: c, prefix: prefix, padding: padding}
}

func (p *RedisProvider) Next(ctx context.Context) (string, error) {
	year := p.clock.Now().Year()
	n, err := p.client.Incr(ctx, p.key(year)).Result()
	if err != nil {
		return "", fmt.Errorf("sequence incr: %w", err)
	}
	return Format(p.prefix, year, n, p.padding), nil
}

func (p *RedisProvider) key(year int) string {
	return fmt.Sprintf("sequence:%s:%d", strings.ToLower(p.prefix), year)
}

// RowQuerier is the part of pgxpool.Pool the Postgres provider needs.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresProvider keeps one counter row per prefix and year in ticket_sequences. The
// upsert takes a row lock, so replicas sharing the database never hand out the same
// value, and the counter survives restarts with the tickets it numbered.
type PostgresProvider struct {
	db      RowQuerier
	clock   clock.Clock
	prefix  string
	padding int
}

// NewPostgresProvider builds a provider on db, usually a *pgxpool.Pool.
func NewPostgresProvider(db RowQuerier, c clock.Clock, prefix string, padding int) *PostgresProvider {
	if c == nil {
		c = clock.System()
	}
	if padding < 1 {
		padding = 1
	}
	return &PostgresProvider{db: db, clock: c, prefix: prefix, padding: padding}
}

const nextValueSQL = `
        INSERT INTO ticket_sequences (prefix, year, last_value) VALUES ($1, $2, 1)
        ON CONFLICT (prefix, year) DO UPDATE SET last_value = ticket_sequences.last_value + 1
        RETURNING last_value`

func (p *PostgresProvider) Next(ctx context.Context) (string, error) {
	year := p.clock.Now().Year()
	var n int64
	if err := p.db.QueryRow(ctx, nextValueSQL, p.prefix, year).Scan(&n); err != nil {
		return "", fmt.Errorf("sequence next: %w", err)
	}
	return Format(p.prefix, year, n, p.padding), nil
}

// Format renders a ticket number.
func Format(prefix string, year int, n int64, padding int) string {
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, padding, n)
}

// KeyProvider derives numbers from random UUIDs. It needs no shared state, at the cost
// of numbers that are not ordered.
type KeyProvider struct {
	prefix string
}

// NewKeyProvider returns a provider producing PREFIX-XXXXXXXX keys.
func NewKeyProvider(prefix string) *KeyProvider {
	return &KeyProvider{prefix: prefix}
}

func (p *KeyProvider) Next(context.Context) (string, error) {
	return p.prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]), nil
}

// Counter is an in-process provider for single-instance deployments and tests.
type Counter struct {
	mu      sync.Mutex
	clock   clock.Clock
	prefix  string
	padding int
	year    int
	n       int64
}

// NewCounter returns a counter that restarts at 1 each calendar year.
func NewCounter(c clock.Clock, prefix string, padding int) *Counter {
	if c == nil {
		c = clock.System()
	}
	if padding < 1 {
		padding = 1
	}
	return &Counter{clock: c, prefix: prefix, padding: padding}
}

func (p *Counter) Next(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	year := p.clock.Now().Year()
	if year != p.year {
		p.year = year
		p.n = 0
	}
	p.n++
	return Format(p.prefix, year, p.n, p.padding), nil
}

// For picks the most durable provider available: the database that stores the
// tickets, then Redis, then an in-process counter for memory-only deployments.
func For(pool *pgxpool.Pool, client *redis.Client, c clock.Clock, prefix string, padding int) Provider {
	if pool != nil {
		return NewPostgresProvider(pool, c, prefix, padding)
	}
	if client != nil {
		return NewRedisProvider(client, c, prefix, padding)
	}
	return NewCounter(c, prefix, padding)
}
