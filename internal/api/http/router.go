package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solicitud-service/internal/api/http/handlers"
	"github.com/spec-kit/solicitud-service/internal/auth"
	"github.com/spec-kit/solicitud-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Catalog        *handlers.CatalogHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// transitionRoutes maps URL segments to lifecycle operations.
var transitionRoutes = []struct {
	path  string
	op    domain.Operation
	staff bool
}{
	{"submit", domain.OpSubmit, false},
	{"assign", domain.OpAssign, true},
	{"start", domain.OpStartWork, true},
	{"await-reply", domain.OpAwaitReply, true},
	{"resolve", domain.OpResolve, true},
	{"close", domain.OpClose, true},
	{"cancel", domain.OpCancel, false},
	{"reopen", domain.OpReopen, false},
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	staff := auth.RequireRole(domain.RoleManager)
	admin := auth.RequireRole(domain.RoleAdmin)

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	tickets := api.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/overdue", staff, cfg.Tickets.ListOverdue)
	tickets.Get("/number/:number", cfg.Tickets.GetTicketByNumber)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", staff, cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", admin, cfg.Tickets.DeleteTicket)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/surveys", cfg.Tickets.ListSurveys)
	tickets.Post("/:id/surveys", cfg.Tickets.RateTicket)
	tickets.Post("/:id/auto-assign", staff, cfg.Tickets.AutoAssign)
	for _, route := range transitionRoutes {
		if route.staff {
			tickets.Post("/:id/"+route.path, staff, cfg.Tickets.Transition(route.op))
			continue
		}
		tickets.Post("/:id/"+route.path, cfg.Tickets.Transition(route.op))
	}

	api.Get("/priorities", cfg.Catalog.ListPriorities)
	api.Post("/priorities", admin, cfg.Catalog.CreatePriority)
	api.Get("/departments", cfg.Catalog.ListDepartments)
	api.Post("/departments", admin, cfg.Catalog.CreateDepartment)
	api.Get("/material-types", cfg.Catalog.ListMaterialTypes)
	api.Post("/material-types", admin, cfg.Catalog.CreateMaterialType)
	api.Get("/providers", cfg.Catalog.ListProviders)
	api.Post("/providers", admin, cfg.Catalog.CreateProvider)

	api.Get("/stats", staff, cfg.Stats.Statistics)
	api.Post("/reminders/run", staff, cfg.Stats.RunReminders)
	api.Get("/metrics", admin, cfg.Stats.Metrics)
}
