package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/solicitud-service/internal/clock"
	"github.com/spec-kit/solicitud-service/internal/domain"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

func TestBuildOverdueFilterSQL(t *testing.T) {
	q := NewOverdueQuery(clock.NewManual(base))

	args := []any{}
	sql, err := ToSQL(q.BuildOverdueFilter(true), &args)
	require.NoError(t, err)
	require.Equal(t, "(due_at IS NOT NULL AND due_at < $1 AND state NOT IN ($2,$3,$4))", sql)
	require.Equal(t, []any{base, "closed", "cancelled", "resolved"}, args)

	args = []any{}
	sql, err = ToSQL(q.BuildOverdueFilter(false), &args)
	require.NoError(t, err)
	require.Equal(t, "(due_at IS NULL OR due_at >= $1 OR state IN ($2,$3,$4))", sql)
}

// The store-level predicate must agree with the in-memory metric for every state and
// due date combination, and the false filter must be its exact complement.
func TestBuildOverdueFilterAgreesWithMetric(t *testing.T) {
	now := base.Add(2 * time.Hour)
	q := NewOverdueQuery(clock.NewManual(now))
	dues := []*time.Time{nil, ptr(base), ptr(now), ptr(now.Add(time.Hour))}

	for _, state := range domain.AllStates {
		for _, due := range dues {
			ticket := &domain.Ticket{State: state, RequestedAt: base, DueAt: due}
			want := domain.IsOverdue(ticket, now)

			gotTrue, err := Match(q.BuildOverdueFilter(true), ticket)
			require.NoError(t, err)
			gotFalse, err := Match(q.BuildOverdueFilter(false), ticket)
			require.NoError(t, err)

			require.Equalf(t, want, gotTrue, "state=%s due=%v", state, due)
			require.Equalf(t, !want, gotFalse, "state=%s due=%v", state, due)
		}
	}
}

func TestTranslate(t *testing.T) {
	q := NewOverdueQuery(clock.NewManual(base))

	pred, err := q.Translate(OpEq, true)
	require.NoError(t, err)
	require.Equal(t, q.BuildOverdueFilter(true), pred)

	pred, err = q.Translate(OpNe, "true")
	require.NoError(t, err)
	require.Equal(t, q.BuildOverdueFilter(false), pred)

	_, err = q.Translate(OpLt, true)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnsupportedFilter))

	_, err = q.Translate(OpIn, true)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnsupportedFilter))

	_, err = q.Translate(OpEq, "maybe")
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestDueBy(t *testing.T) {
	bound := base.Add(24 * time.Hour)
	pred := DueBy(bound)

	open := &domain.Ticket{State: domain.StateInProgress, DueAt: ptr(base.Add(12 * time.Hour))}
	closed := &domain.Ticket{State: domain.StateClosed, DueAt: ptr(base.Add(12 * time.Hour))}
	later := &domain.Ticket{State: domain.StateInProgress, DueAt: ptr(base.Add(30 * time.Hour))}
	undated := &domain.Ticket{State: domain.StateInProgress}

	for ticket, want := range map[*domain.Ticket]bool{open: true, closed: false, later: false, undated: false} {
		got, err := Match(pred, ticket)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func ptr(v time.Time) *time.Time {
	return &v
}
