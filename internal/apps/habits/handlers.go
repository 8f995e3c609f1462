package habits

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type HabitHandler struct {
	service *Service
}

func NewHabitHandler(service *Service) *HabitHandler {
	return &HabitHandler{service: service}
}

func (h *HabitHandler) List(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	day := c.Query("date", requestctx.GetToday(c))
	list, err := h.service.ListForDay(c.UserContext(), userID, day)
	if err != nil {
		return handlers.Fail(c, err, "Failed to list habits")
	}
	return c.JSON(fiber.Map{"date": day, "habits": list})
}

func (h *HabitHandler) Create(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	var req CreateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}

	habit, err := h.service.Create(c.UserContext(), userID, req)
	if err != nil {
		return handlers.Fail(c, err, "Failed to create habit")
	}
	return c.Status(fiber.StatusCreated).JSON(habit)
}

func (h *HabitHandler) Delete(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handlers.Fail(c, apperr.Invalid("habit id must be a UUID", "id"), "")
	}

	if err := h.service.Delete(c.UserContext(), userID, habitID); err != nil {
		return handlers.Fail(c, err, "Failed to delete habit")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HabitHandler) Toggle(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handlers.Fail(c, apperr.Invalid("habit id must be a UUID", "id"), "")
	}

	result, err := h.service.Toggle(c.UserContext(), userID, habitID, c.Query("date", requestctx.GetToday(c)))
	if err != nil {
		if errors.Is(err, ErrAwardFailed) && result != nil {
			slog.Error("habit toggled without xp",
				"user_id", userID.String(),
				"action", "habit_completion",
				"error", err.Error(),
			)
			result.Warning = "Habit updated, but XP could not be awarded"
			return c.JSON(result)
		}
		return handlers.Fail(c, err, "Failed to toggle habit")
	}
	return c.JSON(result)
}
