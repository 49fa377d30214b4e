package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solicitud-service/internal/observability"
	"github.com/spec-kit/solicitud-service/internal/service"
)

// ReminderRunner performs one reminder sweep and reports how many reminders went out.
type ReminderRunner interface {
	Run(ctx context.Context) (int, error)
}

// StatsHandler exposes statistics, process metrics and the manual reminder trigger.
type StatsHandler struct {
	stats     *service.StatsService
	reminders ReminderRunner
	metrics   *observability.Metrics
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService, reminders ReminderRunner, metrics *observability.Metrics) *StatsHandler {
	return &StatsHandler{stats: stats, reminders: reminders, metrics: metrics}
}

// Statistics GET /stats.
func (h *StatsHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.stats.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// RunReminders POST /reminders/run.
func (h *StatsHandler) RunReminders(c *fiber.Ctx) error {
	sent, err := h.reminders.Run(c.UserContext())
	resp := fiber.Map{"sent": sent}
	if err != nil {
		// Partial sweeps still report what was delivered.
		resp["error"] = err.Error()
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Metrics GET /metrics.
func (h *StatsHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
