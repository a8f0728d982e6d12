package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tgdesk/supportbot/internal/observability"
	"github.com/tgdesk/supportbot/internal/service"
)

// StatsHandler exposes the aggregate store statistics and the in-process
// relay counters for operators.
type StatsHandler struct {
	admin   *service.AdminService
	metrics *observability.Metrics
}

// NewStatsHandler returns a new handler instance.
func NewStatsHandler(admin *service.AdminService, metrics *observability.Metrics) *StatsHandler {
	return &StatsHandler{admin: admin, metrics: metrics}
}

// Overview returns the same aggregate view the /stats bot command shows.
func (h *StatsHandler) Overview(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return err
	}

	daily := make([]fiber.Map, 0, len(stats.MessagesLast7Days))
	for _, day := range stats.MessagesLast7Days {
		daily = append(daily, fiber.Map{"date": day.Date, "count": day.Count})
	}

	return c.JSON(fiber.Map{
		"total_users":               stats.TotalUsers,
		"active_today":              stats.ActiveToday,
		"open_tickets":              stats.OpenTickets,
		"closed_tickets":            stats.ClosedTickets,
		"avg_response_time_minutes": stats.AvgResponseMinutes,
		"messages_last_7_days":      daily,
	})
}

// RelayCounters returns in-memory relay loop counters.
func (h *StatsHandler) RelayCounters(c *fiber.Ctx) error {
	updates, deliveries, deliveryErrors := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"updates":         updates,
		"deliveries":      deliveries,
		"delivery_errors": deliveryErrors,
	})
}
