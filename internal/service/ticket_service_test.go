package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/solicitud-service/internal/clock"
	"github.com/spec-kit/solicitud-service/internal/domain"
	"github.com/spec-kit/solicitud-service/internal/events"
	"github.com/spec-kit/solicitud-service/internal/notify"
	"github.com/spec-kit/solicitud-service/internal/observability"
	"github.com/spec-kit/solicitud-service/internal/query"
	"github.com/spec-kit/solicitud-service/internal/repository/memstore"
	"github.com/spec-kit/solicitud-service/internal/sequence"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

const (
	requester = "user-requester"
	manager   = "user-manager"
)

type fixture struct {
	svc     *TicketService
	catalog *CatalogService
	store   *memstore.Store
	clock   *clock.Manual
	sink    *notify.Memory
	metrics *observability.Metrics
	events  events.Dispatcher
	normal  *domain.Priority
	urgent  *domain.Priority
	dept    *domain.Department
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	c := clock.NewManual(t0)
	catalog := NewCatalogService(store, c, nil)

	normal, err := catalog.CreatePriority(ctx, PriorityInput{Name: "Normal", Level: 2})
	require.NoError(t, err)
	urgent, err := catalog.CreatePriority(ctx, PriorityInput{Name: "Urgent", Level: 5, ResponseTimeHours: 8})
	require.NoError(t, err)
	dept, err := catalog.CreateDepartment(ctx, DepartmentInput{Name: "Facilities"})
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher(nil)
	sink := notify.NewMemory()
	NewNotificationService(dispatcher, nil, sink).RegisterHandlers()
	metrics := observability.NewMetrics()

	svc := NewTicketService(TicketDependencies{
		TicketRepo:  store,
		CatalogRepo: store,
		CommentRepo: store,
		Sequence:    sequence.NewCounter(c, "SOL", 5),
		Clock:       c,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
	})
	return &fixture{
		svc:     svc,
		catalog: catalog,
		store:   store,
		clock:   c,
		sink:    sink,
		metrics: metrics,
		events:  dispatcher,
		normal:  normal,
		urgent:  urgent,
		dept:    dept,
	}
}

func (f *fixture) input() TicketCreateInput {
	return TicketCreateInput{
		Title:        "Replace projector bulb",
		Description:  "Room 4 projector is dark",
		Category:     domain.CategoryMaintenance,
		DepartmentID: f.dept.ID,
		PriorityID:   f.normal.ID,
	}
}

func (f *fixture) create(t *testing.T, mutate func(*TicketCreateInput)) *domain.Ticket {
	t.Helper()
	in := f.input()
	if mutate != nil {
		mutate(&in)
	}
	ticket, err := f.svc.Create(context.Background(), requester, in)
	require.NoError(t, err)
	return ticket
}

func (f *fixture) history(t *testing.T, id string) []domain.HistoryEntry {
	t.Helper()
	view, err := f.svc.ListHistory(context.Background(), id)
	require.NoError(t, err)
	return view.Entries
}

func withManager() TransitionInput {
	m := manager
	return TransitionInput{ManagerID: &m}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, code), "want %s, got %v", code, err)
}

func TestCreateDefaultsToPendingWithCreationEntry(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, nil)

	require.Equal(t, domain.StatePending, ticket.State)
	require.Equal(t, "SOL-2026-00001", ticket.Number)
	require.Equal(t, requester, ticket.RequesterID)
	require.Equal(t, t0, ticket.RequestedAt)
	require.Equal(t, f.normal.Level, ticket.PriorityLevel)
	require.Nil(t, ticket.DueAt)

	history := f.history(t, ticket.ID)
	require.Len(t, history, 1)
	require.True(t, history[0].IsCreation())
	require.Equal(t, domain.StatePending, history[0].ToState)
	require.Equal(t, requester, history[0].ChangedBy)

	second := f.create(t, nil)
	require.Equal(t, "SOL-2026-00002", second.Number)

	notes := f.sink.Notifications()
	require.Len(t, notes, 2)
	require.Contains(t, notes[0].Message, "SOL-2026-00001")
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("missing required fields", func(t *testing.T) {
		_, err := f.svc.Create(ctx, requester, TicketCreateInput{})
		requireCode(t, err, apperrors.CodeValidation)
	})

	t.Run("unknown category", func(t *testing.T) {
		in := f.input()
		in.Category = "catering"
		_, err := f.svc.Create(ctx, requester, in)
		requireCode(t, err, apperrors.CodeValidation)
	})

	t.Run("unknown priority", func(t *testing.T) {
		in := f.input()
		in.PriorityID = "missing"
		_, err := f.svc.Create(ctx, requester, in)
		requireCode(t, err, apperrors.CodeValidation)
	})

	t.Run("inactive department", func(t *testing.T) {
		closed := &domain.Department{Name: "Closed wing", IsActive: false}
		require.NoError(t, f.store.CreateDepartment(ctx, closed))
		in := f.input()
		in.DepartmentID = closed.ID
		_, err := f.svc.Create(ctx, requester, in)
		requireCode(t, err, apperrors.CodeValidation)
	})

	t.Run("missing actor", func(t *testing.T) {
		_, err := f.svc.Create(ctx, " ", f.input())
		requireCode(t, err, apperrors.CodeValidation)
	})
}

func TestCreateDueDateRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	early := t0.Add(-time.Hour)
	in := f.input()
	in.DueAt = &early
	_, err := f.svc.Create(ctx, requester, in)
	requireCode(t, err, apperrors.CodeValidation)

	count, err := f.store.Count(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, count)

	late := t0.Add(time.Hour)
	in.DueAt = &late
	ticket, err := f.svc.Create(ctx, requester, in)
	require.NoError(t, err)
	require.Equal(t, late, *ticket.DueAt)
}

func TestCreateDefaultsDueDateFromPriority(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, func(in *TicketCreateInput) { in.PriorityID = f.urgent.ID })
	require.NotNil(t, ticket.DueAt)
	require.Equal(t, t0.Add(8*time.Hour), *ticket.DueAt)
	require.Equal(t, 5, ticket.PriorityLevel)
}

func TestResolveTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	_, err := f.svc.Assign(ctx, ticket.ID, manager, withManager())
	require.NoError(t, err)
	res, err := f.svc.Resolve(ctx, ticket.ID, manager, TransitionInput{ResolutionText: "Bulb replaced"})
	require.NoError(t, err)
	require.Equal(t, domain.StateResolved, res.Ticket.State)

	_, err = f.svc.Resolve(ctx, ticket.ID, manager, TransitionInput{ResolutionText: "again"})
	requireCode(t, err, apperrors.CodeInvalidTransition)

	resolved := 0
	for _, entry := range f.history(t, ticket.ID) {
		if entry.ToState == domain.StateResolved {
			resolved++
		}
	}
	require.Equal(t, 1, resolved)
}

func TestOverdueScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := t0.Add(time.Hour)
	ticket := f.create(t, func(in *TicketCreateInput) { in.DueAt = &due })

	_, err := f.svc.Assign(ctx, ticket.ID, manager, withManager())
	require.NoError(t, err)

	f.clock.Set(t0.Add(2 * time.Hour))
	view, err := f.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.True(t, view.Metrics.IsOverdue)
	require.Equal(t, domain.ColorCritical, view.Metrics.ColorTier)

	overdue, err := f.svc.Overdue(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, overdue.Total)
	require.Equal(t, ticket.ID, overdue.Items[0].Ticket.ID)

	f.clock.Set(t0.Add(150 * time.Minute))
	_, err = f.svc.Resolve(ctx, ticket.ID, manager, TransitionInput{ResolutionText: "done"})
	require.NoError(t, err)

	view, err = f.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.False(t, view.Metrics.IsOverdue)
	require.InDelta(t, 2.5, view.Metrics.ResolutionHours, 1e-9)

	overdue, err = f.svc.Overdue(ctx, 0, 0)
	require.NoError(t, err)
	require.Zero(t, overdue.Total)

	notOverdue, err := f.svc.Search(ctx, TicketFilter{OverdueValue: "false"})
	require.NoError(t, err)
	require.Equal(t, 1, notOverdue.Total)
}

func TestHistoryTiming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	f.clock.Set(t0.Add(time.Hour))
	_, err := f.svc.Assign(ctx, ticket.ID, manager, withManager())
	require.NoError(t, err)

	f.clock.Set(t0.Add(3 * time.Hour))
	res, err := f.svc.StartWork(ctx, ticket.ID, manager, TransitionInput{})
	require.NoError(t, err)
	require.InDelta(t, 2.0, res.Entry.HoursInPreviousState, 1e-9)

	history := f.history(t, ticket.ID)
	require.Len(t, history, 3)
	require.InDelta(t, 1.0, history[1].HoursInPreviousState, 1e-9)
	require.Equal(t, domain.StateInProgress, history[2].ToState)
	require.InDelta(t, 2.0, history[2].HoursInPreviousState, 1e-9)

	stored, err := f.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, t0.Add(time.Hour), *stored.Ticket.AssignedAt)
	require.Equal(t, t0.Add(3*time.Hour), *stored.Ticket.StartedAt)
}

func TestAssignWithoutManagerIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	_, err := f.svc.Assign(ctx, ticket.ID, requester, TransitionInput{})
	requireCode(t, err, apperrors.CodePrecondition)

	stored, err := f.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatePending, stored.Ticket.State)
	require.Nil(t, stored.Ticket.AssignedAt)
	require.Equal(t, ticket.Version, stored.Ticket.Version)
	require.Len(t, f.history(t, ticket.ID), 1)
}

func TestAssignUsesExistingManager(t *testing.T) {
	f := newFixture(t)
	m := manager
	ticket := f.create(t, func(in *TicketCreateInput) { in.ManagerID = &m })

	res, err := f.svc.Assign(context.Background(), ticket.ID, requester, TransitionInput{})
	require.NoError(t, err)
	require.Equal(t, domain.StateAssigned, res.Ticket.State)
	require.Contains(t, res.Message, manager)
}

func TestResolveRequiresText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)
	_, err := f.svc.Assign(ctx, ticket.ID, manager, withManager())
	require.NoError(t, err)

	_, err = f.svc.Resolve(ctx, ticket.ID, manager, TransitionInput{ResolutionText: "   "})
	requireCode(t, err, apperrors.CodePrecondition)

	stored, err := f.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateAssigned, stored.Ticket.State)
	require.Nil(t, stored.Ticket.ResolvedAt)
}

func TestInvalidTransitionNamesStateAndOperation(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, nil)

	_, err := f.svc.Close(context.Background(), ticket.ID, manager, TransitionInput{})
	requireCode(t, err, apperrors.CodeInvalidTransition)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "pending", domainErr.Details["state"])
	require.Equal(t, "close", domainErr.Details["operation"])
}

func TestExpectedStateGuardsRetries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	in := withManager()
	in.ExpectedState = domain.StatePending
	_, err := f.svc.Assign(ctx, ticket.ID, manager, in)
	require.NoError(t, err)

	// A blind retry of the acknowledged-but-lost call must not append a second entry.
	_, err = f.svc.Assign(ctx, ticket.ID, manager, in)
	requireCode(t, err, apperrors.CodeConcurrencyConflict)
	require.Len(t, f.history(t, ticket.ID), 2)
}

func TestConcurrentResolveHasSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)
	_, err := f.svc.Assign(ctx, ticket.ID, manager, withManager())
	require.NoError(t, err)

	const callers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		rejected int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Resolve(ctx, ticket.ID, manager, TransitionInput{ResolutionText: "fixed"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if apperrors.IsCode(err, apperrors.CodeInvalidTransition) {
				rejected++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	require.Equal(t, callers-1, rejected)
	history := f.history(t, ticket.ID)
	require.Len(t, history, 3)
	require.True(t, domain.ValidWalk(history))
}

func TestReopenClearsResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	_, err := f.svc.Assign(ctx, ticket.ID, manager, withManager())
	require.NoError(t, err)
	_, err = f.svc.StartWork(ctx, ticket.ID, manager, TransitionInput{})
	require.NoError(t, err)
	f.clock.Advance(4 * time.Hour)
	_, err = f.svc.Resolve(ctx, ticket.ID, manager, TransitionInput{ResolutionText: "fixed"})
	require.NoError(t, err)
	closed, err := f.svc.Close(ctx, ticket.ID, requester, TransitionInput{})
	require.NoError(t, err)
	require.NotNil(t, closed.Ticket.ClosedAt)
	require.InDelta(t, 4.0, closed.Ticket.ResolutionHours, 1e-9)

	reopened, err := f.svc.Reopen(ctx, ticket.ID, requester, TransitionInput{})
	require.NoError(t, err)
	require.Equal(t, domain.StatePending, reopened.Ticket.State)
	require.Nil(t, reopened.Ticket.ResolvedAt)
	require.Nil(t, reopened.Ticket.ClosedAt)
	require.Zero(t, reopened.Ticket.ResolutionHours)
	require.NotNil(t, reopened.Ticket.AssignedAt)
	require.NotNil(t, reopened.Ticket.StartedAt)
	require.True(t, domain.ValidWalk(f.history(t, ticket.ID)))
}

func TestCancelFromClosedIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)
	_, err := f.svc.Cancel(ctx, ticket.ID, requester, TransitionInput{})
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, ticket.ID, requester, TransitionInput{})
	requireCode(t, err, apperrors.CodeInvalidTransition)
}

func TestHistoryIsAlwaysAValidWalk(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for n := 0; n < 20; n++ {
		ticket := f.create(t, nil)
		for step := 0; step < 30; step++ {
			f.clock.Advance(time.Duration(rng.Intn(120)) * time.Minute)
			op := domain.Operations[rng.Intn(len(domain.Operations))]
			in := TransitionInput{}
			if rng.Intn(2) == 0 {
				in = withManager()
			}
			if rng.Intn(2) == 0 {
				in.ResolutionText = "handled"
			}
			_, err := f.svc.Transition(ctx, ticket.ID, manager, op, in)
			if err != nil {
				require.True(t,
					apperrors.IsCode(err, apperrors.CodeInvalidTransition) || apperrors.IsCode(err, apperrors.CodePrecondition),
					"unexpected error %v", err)
			}
		}
		history := f.history(t, ticket.ID)
		require.True(t, domain.ValidWalk(history))

		stored, err := f.svc.Get(ctx, ticket.ID)
		require.NoError(t, err)
		require.Equal(t, history[len(history)-1].ToState, stored.Ticket.State)
	}
}

func TestTransitionUnknownOperation(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, nil)
	_, err := f.svc.Transition(context.Background(), ticket.ID, manager, "escalate", TransitionInput{})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestTransitionOnMissingTicket(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(context.Background(), "nope", manager, TransitionInput{})
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestNotificationFailureDoesNotRollBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	f.sink.Fail(errors.New("smtp down"))
	res, err := f.svc.Assign(ctx, ticket.ID, manager, withManager())
	require.NoError(t, err)
	require.NotEmpty(t, res.Message)

	stored, err := f.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateAssigned, stored.Ticket.State)
	require.Len(t, f.history(t, ticket.ID), 2)
}

func TestTransitionsAreCounted(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, nil)
	_, err := f.svc.Assign(context.Background(), ticket.ID, manager, withManager())
	require.NoError(t, err)
	require.EqualValues(t, 1, f.metrics.Snapshot().Transitions["assign|pending|assigned"])
}

func TestUpdateDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	title := "Replace both projector bulbs"
	due := t0.Add(48 * time.Hour)
	cost := 120.5
	updated, err := f.svc.UpdateDetails(ctx, ticket.ID, manager, TicketDetailsInput{
		Title:         &title,
		DueAt:         &due,
		EstimatedCost: &cost,
	})
	require.NoError(t, err)
	require.Equal(t, title, updated.Title)
	require.Equal(t, due, *updated.DueAt)
	require.Equal(t, cost, updated.EstimatedCost)
	require.Equal(t, domain.StatePending, updated.State)
	require.Equal(t, ticket.Number, updated.Number)
	require.Len(t, f.history(t, ticket.ID), 1)

	early := t0.Add(-time.Minute)
	_, err = f.svc.UpdateDetails(ctx, ticket.ID, manager, TicketDetailsInput{DueAt: &early})
	requireCode(t, err, apperrors.CodeValidation)

	stored, err := f.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, due, *stored.Ticket.DueAt)

	_, err = f.svc.UpdateDetails(ctx, ticket.ID, manager, TicketDetailsInput{ClearDueAt: true})
	require.NoError(t, err)
	stored, err = f.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.Nil(t, stored.Ticket.DueAt)
}

func TestUpdateDetailsPublishesAndGuardsManager(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	var published []events.Event
	f.events.Subscribe(events.EventTicketUpdated, func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	due := t0.Add(72 * time.Hour)
	_, err := f.svc.UpdateDetails(ctx, ticket.ID, manager, TicketDetailsInput{DueAt: &due})
	require.NoError(t, err)
	require.Len(t, published, 1)
	require.Equal(t, ticket.ID, published[0].TicketID)
	require.Equal(t, manager, published[0].ActorID)

	_, err = f.svc.Assign(ctx, ticket.ID, manager, withManager())
	require.NoError(t, err)

	empty := ""
	_, err = f.svc.UpdateDetails(ctx, ticket.ID, manager, TicketDetailsInput{ManagerID: &empty})
	requireCode(t, err, apperrors.CodePrecondition)
	require.Len(t, published, 1)

	stored, err := f.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Ticket.ManagerID)
	require.Equal(t, manager, *stored.Ticket.ManagerID)

	other := "user-other-manager"
	updated, err := f.svc.UpdateDetails(ctx, ticket.ID, manager, TicketDetailsInput{ManagerID: &other})
	require.NoError(t, err)
	require.Equal(t, other, *updated.ManagerID)
}

func TestSearchFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	low := f.create(t, nil)
	high := f.create(t, func(in *TicketCreateInput) {
		in.PriorityID = f.urgent.ID
		in.Category = domain.CategoryIT
	})
	_, err := f.svc.Assign(ctx, low.ID, manager, withManager())
	require.NoError(t, err)

	all, err := f.svc.Search(ctx, TicketFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, all.Total)
	require.Equal(t, high.ID, all.Items[0].Ticket.ID)

	assigned, err := f.svc.Search(ctx, TicketFilter{States: []domain.TicketState{domain.StateAssigned}})
	require.NoError(t, err)
	require.Equal(t, 1, assigned.Total)
	require.Equal(t, low.ID, assigned.Items[0].Ticket.ID)

	byManager, err := f.svc.Search(ctx, TicketFilter{ManagerID: manager})
	require.NoError(t, err)
	require.Equal(t, 1, byManager.Total)

	it, err := f.svc.Search(ctx, TicketFilter{Category: domain.CategoryIT, MinPriorityLevel: 4})
	require.NoError(t, err)
	require.Equal(t, 1, it.Total)
	require.Equal(t, high.ID, it.Items[0].Ticket.ID)

	_, err = f.svc.Search(ctx, TicketFilter{OverdueOp: query.OpLt, OverdueValue: true})
	requireCode(t, err, apperrors.CodeUnsupportedFilter)

	_, err = f.svc.Search(ctx, TicketFilter{OverdueValue: "maybe"})
	requireCode(t, err, apperrors.CodeValidation)

	_, err = f.svc.Search(ctx, TicketFilter{States: []domain.TicketState{"archived"}})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestDeleteRemovesTicketAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.create(t, nil)

	require.NoError(t, f.svc.Delete(ctx, ticket.ID, manager))
	_, err := f.svc.Get(ctx, ticket.ID)
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = f.svc.ListHistory(ctx, ticket.ID)
	requireCode(t, err, apperrors.CodeNotFound)

	entries, err := f.store.ListHistory(ctx, ticket.ID)
	require.NoError(t, err)
	require.Empty(t, entries)

	requireCode(t, f.svc.Delete(ctx, ticket.ID, manager), apperrors.CodeNotFound)
}

func TestGetByNumber(t *testing.T) {
	f := newFixture(t)
	ticket := f.create(t, nil)
	view, err := f.svc.GetByNumber(context.Background(), ticket.Number)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, view.Ticket.ID)
	require.Equal(t, []domain.Operation{domain.OpAssign, domain.OpStartWork, domain.OpCancel}, view.Operations)
}
