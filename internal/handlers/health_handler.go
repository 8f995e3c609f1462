package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/database"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ping func() error
}

func NewHealthHandler(ping func() error) *HealthHandler {
	if ping == nil {
		ping = database.Ping
	}
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := h.ping(); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Today:     requestctx.GetToday(c),
	})
}
