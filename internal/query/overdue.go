package query

import (
	"strconv"
	"time"

	"github.com/spec-kit/solicitud-service/internal/clock"
	"github.com/spec-kit/solicitud-service/internal/domain"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// OverdueQuery translates filters on the derived is_overdue flag into store-level
// predicates so the store can range-scan due_at instead of loading every ticket.
type OverdueQuery struct {
	clock clock.Clock
}

// NewOverdueQuery builds a translator reading the current time from c.
func NewOverdueQuery(c clock.Clock) *OverdueQuery {
	if c == nil {
		c = clock.System()
	}
	return &OverdueQuery{clock: c}
}

// BuildOverdueFilter returns the predicate selecting overdue tickets when wantOverdue
// is true, and its exact negation otherwise.
func (q *OverdueQuery) BuildOverdueFilter(wantOverdue bool) Predicate {
	now := q.clock.Now()
	if wantOverdue {
		return And{
			NotNull(FieldDueAt),
			Lt(FieldDueAt, now),
			NotIn(FieldState, domain.OverdueExemptStates...),
		}
	}
	return Or{
		IsNull(FieldDueAt),
		Gte(FieldDueAt, now),
		In(FieldState, domain.OverdueExemptStates...),
	}
}

// Translate accepts an is_overdue comparison as it arrives from a caller. Only
// equality (and its negation) against a boolean is meaningful.
func (q *OverdueQuery) Translate(op Operator, value any) (Predicate, error) {
	want, ok := boolValue(value)
	if !ok {
		return nil, apperrors.NewValidationError("is_overdue filter expects a boolean", map[string]any{
			"value": value,
		})
	}
	switch op {
	case OpEq:
		return q.BuildOverdueFilter(want), nil
	case OpNe:
		return q.BuildOverdueFilter(!want), nil
	default:
		return nil, apperrors.NewUnsupportedFilter(string(FieldIsOverdue), string(op))
	}
}

// DueBy selects unresolved tickets whose due date falls at or before bound.
func DueBy(bound time.Time) Predicate {
	return And{
		NotNull(FieldDueAt),
		Lte(FieldDueAt, bound),
		NotIn(FieldState, domain.OverdueExemptStates...),
	}
}

func boolValue(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return false, false
		}
		return parsed, true
	}
	return false, false
}
