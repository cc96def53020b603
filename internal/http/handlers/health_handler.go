package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	applog "travelhub/internal/log"
)

type HealthHandler struct {
	DB *sqlx.DB
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.DB.PingContext(c.UserContext()); err != nil {
		applog.Error(c, "health.db.fail", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}
	return c.JSON(fiber.Map{"ok": true})
}
