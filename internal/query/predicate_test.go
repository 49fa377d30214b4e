package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/solicitud-service/internal/domain"
)

var base = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func TestToSQLBuildsPositionalArgs(t *testing.T) {
	args := []any{}
	sql, err := ToSQL(And{
		Eq(FieldDepartmentID, "dept-1"),
		In(FieldState, domain.StatePending, domain.StateAssigned),
		Or{IsNull(FieldDueAt), Gte(FieldDueAt, base)},
	}, &args)
	require.NoError(t, err)
	require.Equal(t, "(department_id = $1 AND state IN ($2,$3) AND (due_at IS NULL OR due_at >= $4))", sql)
	require.Equal(t, []any{"dept-1", "pending", "assigned", base}, args)
}

func TestToSQLContinuesNumberingFromExistingArgs(t *testing.T) {
	args := []any{"already"}
	sql, err := ToSQL(Condition{Field: FieldManagerID, Op: OpNe, Value: "m-1"}, &args)
	require.NoError(t, err)
	require.Equal(t, "manager_id <> $2", sql)
	require.Len(t, args, 2)
}

func TestToSQLEmptyGroups(t *testing.T) {
	args := []any{}
	sql, err := ToSQL(And{}, &args)
	require.NoError(t, err)
	require.Equal(t, "TRUE", sql)

	sql, err = ToSQL(Or{}, &args)
	require.NoError(t, err)
	require.Equal(t, "FALSE", sql)

	sql, err = ToSQL(In[string](FieldState), &args)
	require.NoError(t, err)
	require.Equal(t, "FALSE", sql)
	require.Empty(t, args)
}

func TestToSQLRejectsDerivedField(t *testing.T) {
	args := []any{}
	_, err := ToSQL(Eq(FieldIsOverdue, true), &args)
	require.Error(t, err)
}

func TestOrderSQL(t *testing.T) {
	sql, err := OrderSQL(nil)
	require.NoError(t, err)
	require.Equal(t, "priority_level DESC, requested_at ASC, id ASC", sql)

	_, err = OrderSQL([]Order{{Field: FieldIsOverdue}})
	require.Error(t, err)
}

func TestMatch(t *testing.T) {
	manager := "m-1"
	due := base.Add(time.Hour)
	ticket := &domain.Ticket{
		ID:            "t-1",
		State:         domain.StateAssigned,
		Category:      domain.CategoryIT,
		DepartmentID:  "dept-1",
		ManagerID:     &manager,
		PriorityLevel: 4,
		RequestedAt:   base,
		DueAt:         &due,
	}
	tests := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"nil matches", nil, true},
		{"eq state", Eq(FieldState, domain.StateAssigned), true},
		{"in category", In(FieldCategory, domain.CategoryIT, domain.CategoryHR), true},
		{"not in state", NotIn(FieldState, domain.OverdueExemptStates...), true},
		{"priority gte", Gte(FieldPriorityLevel, 4), true},
		{"priority lt", Lt(FieldPriorityLevel, 4), false},
		{"due before", Lt(FieldDueAt, base.Add(2*time.Hour)), true},
		{"null resolved", IsNull(FieldResolvedAt), true},
		{"compare against null is false", Lt(FieldResolvedAt, base), false},
		{"or short circuits", Or{Eq(FieldState, domain.StateClosed), Eq(FieldManagerID, "m-1")}, true},
		{"and requires all", And{Eq(FieldDepartmentID, "dept-1"), Eq(FieldRequesterID, "other")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(tt.pred, ticket)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMatchTypeMismatch(t *testing.T) {
	_, err := Match(Eq(FieldPriorityLevel, "high"), &domain.Ticket{PriorityLevel: 3})
	require.Error(t, err)
}

func TestSortTicketsDefaultOrder(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "a", PriorityLevel: 2, RequestedAt: base},
		{ID: "b", PriorityLevel: 5, RequestedAt: base.Add(time.Hour)},
		{ID: "c", PriorityLevel: 5, RequestedAt: base},
		{ID: "d", PriorityLevel: 2, RequestedAt: base},
	}
	SortTickets(tickets, nil)
	ids := make([]string, len(tickets))
	for i, ticket := range tickets {
		ids[i] = ticket.ID
	}
	require.Equal(t, []string{"c", "b", "a", "d"}, ids)
}

func TestSortTicketsNullsLast(t *testing.T) {
	due := base
	tickets := []domain.Ticket{
		{ID: "a"},
		{ID: "b", DueAt: &due},
	}
	SortTickets(tickets, []Order{{Field: FieldDueAt}})
	require.Equal(t, "b", tickets[0].ID)
}
