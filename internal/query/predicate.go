package query

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/solicitud-service/internal/domain"
)

// Field identifies a ticket attribute the store can filter or sort on.
type Field string

const (
	FieldState         Field = "state"
	FieldCategory      Field = "category"
	FieldDepartmentID  Field = "department_id"
	FieldRequesterID   Field = "requester_id"
	FieldManagerID     Field = "manager_id"
	FieldPriorityLevel Field = "priority_level"
	FieldRequestedAt   Field = "requested_at"
	FieldDueAt         Field = "due_at"
	FieldResolvedAt    Field = "resolved_at"

	// FieldIsOverdue is derived and never reaches the store; see OverdueQuery.
	FieldIsOverdue Field = "is_overdue"
)

// columns maps storable fields to their SQL column.
var columns = map[Field]string{
	FieldState:         "state",
	FieldCategory:      "category",
	FieldDepartmentID:  "department_id",
	FieldRequesterID:   "requester_id",
	FieldManagerID:     "manager_id",
	FieldPriorityLevel: "priority_level",
	FieldRequestedAt:   "requested_at",
	FieldDueAt:         "due_at",
	FieldResolvedAt:    "resolved_at",
}

// Operator is a comparison operator.
type Operator string

const (
	OpEq      Operator = "="
	OpNe      Operator = "!="
	OpLt      Operator = "<"
	OpLte     Operator = "<="
	OpGt      Operator = ">"
	OpGte     Operator = ">="
	OpIn      Operator = "in"
	OpNotIn   Operator = "not in"
	OpIsNull  Operator = "is null"
	OpNotNull Operator = "is not null"
)

// Predicate is a boolean condition over tickets.
type Predicate interface {
	isPredicate()
}

// Condition compares one field against a value.
type Condition struct {
	Field Field
	Op    Operator
	Value any
}

// And matches when every child matches. An empty And matches everything.
type And []Predicate

// Or matches when any child matches. An empty Or matches nothing.
type Or []Predicate

func (Condition) isPredicate() {}
func (And) isPredicate()       {}
func (Or) isPredicate()        {}

func Eq(field Field, value any) Condition  { return Condition{Field: field, Op: OpEq, Value: value} }
func Lt(field Field, value any) Condition  { return Condition{Field: field, Op: OpLt, Value: value} }
func Lte(field Field, value any) Condition { return Condition{Field: field, Op: OpLte, Value: value} }
func Gte(field Field, value any) Condition { return Condition{Field: field, Op: OpGte, Value: value} }
func IsNull(field Field) Condition         { return Condition{Field: field, Op: OpIsNull} }
func NotNull(field Field) Condition        { return Condition{Field: field, Op: OpNotNull} }

// In matches when the field equals any of values.
func In[T any](field Field, values ...T) Condition {
	return Condition{Field: field, Op: OpIn, Value: values}
}

// NotIn matches when the field equals none of values.
func NotIn[T any](field Field, values ...T) Condition {
	return Condition{Field: field, Op: OpNotIn, Value: values}
}

// All returns nil-safe conjunction, dropping nil children.
func All(preds ...Predicate) And {
	out := make(And, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Order sorts results by one field.
type Order struct {
	Field Field
	Desc  bool
}

// DefaultOrder ranks urgent tickets first, then oldest requests.
var DefaultOrder = []Order{
	{Field: FieldPriorityLevel, Desc: true},
	{Field: FieldRequestedAt},
}

// ToSQL renders p as a WHERE fragment, appending positional arguments to args.
func ToSQL(p Predicate, args *[]any) (string, error) {
	switch pred := p.(type) {
	case nil:
		return "TRUE", nil
	case And:
		return joinSQL(pred, " AND ", "TRUE", args)
	case Or:
		return joinSQL(pred, " OR ", "FALSE", args)
	case Condition:
		return conditionSQL(pred, args)
	default:
		return "", fmt.Errorf("unsupported predicate %T", p)
	}
}

func joinSQL(children []Predicate, sep, empty string, args *[]any) (string, error) {
	if len(children) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(children))
	for _, child := range children {
		sql, err := ToSQL(child, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, sql)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func conditionSQL(c Condition, args *[]any) (string, error) {
	column, ok := columns[c.Field]
	if !ok {
		return "", fmt.Errorf("field %q is not filterable in the store", c.Field)
	}
	switch c.Op {
	case OpIsNull:
		return column + " IS NULL", nil
	case OpNotNull:
		return column + " IS NOT NULL", nil
	case OpIn, OpNotIn:
		values := toSlice(c.Value)
		if len(values) == 0 {
			if c.Op == OpIn {
				return "FALSE", nil
			}
			return "TRUE", nil
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			*args = append(*args, sqlValue(v))
			placeholders[i] = fmt.Sprintf("$%d", len(*args))
		}
		keyword := "IN"
		if c.Op == OpNotIn {
			keyword = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", column, keyword, strings.Join(placeholders, ",")), nil
	case OpEq, OpLt, OpLte, OpGt, OpGte:
		*args = append(*args, sqlValue(c.Value))
		return fmt.Sprintf("%s %s $%d", column, c.Op, len(*args)), nil
	case OpNe:
		*args = append(*args, sqlValue(c.Value))
		return fmt.Sprintf("%s <> $%d", column, len(*args)), nil
	default:
		return "", fmt.Errorf("unsupported operator %q", c.Op)
	}
}

// OrderSQL renders an ORDER BY list; unknown fields are rejected.
func OrderSQL(orders []Order) (string, error) {
	if len(orders) == 0 {
		orders = DefaultOrder
	}
	parts := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		column, ok := columns[o.Field]
		if !ok {
			return "", fmt.Errorf("field %q is not sortable", o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, column+" "+dir)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", "), nil
}

// sqlValue lowers named string types so the driver encodes them as text.
func sqlValue(v any) any {
	switch val := v.(type) {
	case domain.TicketState:
		return string(val)
	case domain.TicketCategory:
		return string(val)
	default:
		return v
	}
}

func toSlice(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Match evaluates p against a ticket in application memory.
func Match(p Predicate, t *domain.Ticket) (bool, error) {
	switch pred := p.(type) {
	case nil:
		return true, nil
	case And:
		for _, child := range pred {
			ok, err := Match(child, t)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case Or:
		for _, child := range pred {
			ok, err := Match(child, t)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case Condition:
		return matchCondition(pred, t)
	default:
		return false, fmt.Errorf("unsupported predicate %T", p)
	}
}

func matchCondition(c Condition, t *domain.Ticket) (bool, error) {
	value, present, err := fieldValue(t, c.Field)
	if err != nil {
		return false, err
	}
	switch c.Op {
	case OpIsNull:
		return !present, nil
	case OpNotNull:
		return present, nil
	}
	if !present {
		// SQL semantics: comparisons against NULL are never true.
		return false, nil
	}
	switch c.Op {
	case OpIn, OpNotIn:
		found := false
		for _, candidate := range toSlice(c.Value) {
			cmp, err := compare(value, candidate)
			if err != nil {
				return false, err
			}
			if cmp == 0 {
				found = true
				break
			}
		}
		return found == (c.Op == OpIn), nil
	}
	cmp, err := compare(value, c.Value)
	if err != nil {
		return false, err
	}
	switch c.Op {
	case OpEq:
		return cmp == 0, nil
	case OpNe:
		return cmp != 0, nil
	case OpLt:
		return cmp < 0, nil
	case OpLte:
		return cmp <= 0, nil
	case OpGt:
		return cmp > 0, nil
	case OpGte:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("unsupported operator %q", c.Op)
	}
}

func fieldValue(t *domain.Ticket, field Field) (any, bool, error) {
	switch field {
	case FieldState:
		return string(t.State), true, nil
	case FieldCategory:
		return string(t.Category), true, nil
	case FieldDepartmentID:
		return t.DepartmentID, true, nil
	case FieldRequesterID:
		return t.RequesterID, true, nil
	case FieldManagerID:
		if t.ManagerID == nil {
			return nil, false, nil
		}
		return *t.ManagerID, true, nil
	case FieldPriorityLevel:
		return int64(t.PriorityLevel), true, nil
	case FieldRequestedAt:
		return t.RequestedAt, true, nil
	case FieldDueAt:
		if t.DueAt == nil {
			return nil, false, nil
		}
		return *t.DueAt, true, nil
	case FieldResolvedAt:
		if t.ResolvedAt == nil {
			return nil, false, nil
		}
		return *t.ResolvedAt, true, nil
	default:
		return nil, false, fmt.Errorf("field %q is not filterable in the store", field)
	}
}

func compare(a, b any) (int, error) {
	switch left := a.(type) {
	case string:
		right, ok := stringOf(b)
		if !ok {
			return 0, fmt.Errorf("cannot compare string with %T", b)
		}
		return strings.Compare(left, right), nil
	case int64:
		right, ok := intOf(b)
		if !ok {
			return 0, fmt.Errorf("cannot compare integer with %T", b)
		}
		switch {
		case left < right:
			return -1, nil
		case left > right:
			return 1, nil
		}
		return 0, nil
	case time.Time:
		right, ok := b.(time.Time)
		if !ok {
			return 0, fmt.Errorf("cannot compare time with %T", b)
		}
		return left.Compare(right), nil
	default:
		return 0, fmt.Errorf("unsupported value %T", a)
	}
}

func stringOf(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func intOf(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	}
	return 0, false
}

// SortTickets orders tickets in place the way OrderSQL would.
func SortTickets(tickets []domain.Ticket, orders []Order) {
	if len(orders) == 0 {
		orders = DefaultOrder
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		for _, o := range orders {
			cmp := compareForSort(&tickets[i], &tickets[j], o.Field)
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return tickets[i].ID < tickets[j].ID
	})
}

// compareForSort places NULLs last in ascending order, matching Postgres.
func compareForSort(a, b *domain.Ticket, field Field) int {
	left, leftOK, errA := fieldValue(a, field)
	right, rightOK, errB := fieldValue(b, field)
	if errA != nil || errB != nil {
		return 0
	}
	switch {
	case !leftOK && !rightOK:
		return 0
	case !leftOK:
		return 1
	case !rightOK:
		return -1
	}
	cmp, err := compare(left, right)
	if err != nil {
		return 0
	}
	return cmp
}
