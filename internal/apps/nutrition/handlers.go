package nutrition

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/gofiber/fiber/v2"
)

const defaultWindowDays = 7

type LogHandler struct {
	service *LogService
}

func NewLogHandler(service *LogService) *LogHandler {
	return &LogHandler{service: service}
}

func (h *LogHandler) LogFood(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	var req LogFoodRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}

	result, err := h.service.LogFood(c.UserContext(), userID, requestctx.GetToday(c), req)
	if err != nil {
		if errors.Is(err, ErrAwardFailed) && result != nil {
			slog.Error("food logged without xp",
				"user_id", userID.String(),
				"action", "log_food",
				"error", err.Error(),
			)
			result.Warning = "Entry saved, but XP could not be awarded"
			return c.Status(fiber.StatusCreated).JSON(result)
		}
		return handlers.Fail(c, err, "Failed to log food")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *LogHandler) ListFood(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	entries, err := h.service.ListEntries(c.UserContext(), userID, c.Query("date", requestctx.GetToday(c)))
	if err != nil {
		return handlers.Fail(c, err, "Failed to list entries")
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (h *LogHandler) LogWater(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	var req LogWaterRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}

	result, err := h.service.LogWater(c.UserContext(), userID, requestctx.GetToday(c), req.AmountMl)
	if err != nil {
		return handlers.Fail(c, err, "Failed to log water")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

type StatsHandler struct {
	aggregator *Aggregator
}

func NewStatsHandler(aggregator *Aggregator) *StatsHandler {
	return &StatsHandler{aggregator: aggregator}
}

func (h *StatsHandler) Daily(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	totals, err := h.aggregator.DailyTotals(c.UserContext(), userID, c.Query("date", requestctx.GetToday(c)))
	if err != nil {
		return handlers.Fail(c, err, "Failed to load daily stats")
	}
	return c.JSON(totals)
}

func (h *StatsHandler) Window(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	start, end, err := windowParams(c)
	if err != nil {
		return handlers.Fail(c, err, "")
	}

	days, err := h.aggregator.WindowTotals(c.UserContext(), userID, start, end)
	if err != nil {
		return handlers.Fail(c, err, "Failed to load window stats")
	}
	return c.JSON(WindowResponse{Start: start, End: end, Days: days})
}

func (h *StatsHandler) Water(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	start, end, err := windowParams(c)
	if err != nil {
		return handlers.Fail(c, err, "")
	}

	days, err := h.aggregator.WaterWindow(c.UserContext(), userID, start, end)
	if err != nil {
		return handlers.Fail(c, err, "Failed to load water stats")
	}
	return c.JSON(WaterWindowResponse{Start: start, End: end, Days: days})
}

func (h *StatsHandler) Consistency(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	n := DefaultConsistencyDays
	if raw := c.Query("days"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return handlers.Fail(c, apperr.Invalid("days must be a positive integer", "days"), "")
		}
	}

	today := requestctx.GetToday(c)
	active, err := h.aggregator.ConsistencyWindow(c.UserContext(), userID, today, n)
	if err != nil {
		return handlers.Fail(c, err, "Failed to load consistency")
	}
	return c.JSON(ConsistencyResponse{End: today, Days: n, Active: active})
}

// windowParams defaults to the trailing week ending today.
func windowParams(c *fiber.Ctx) (string, string, error) {
	end := c.Query("end", requestctx.GetToday(c))
	start := c.Query("start")
	if start == "" {
		s, err := calendar.AddDays(end, -(defaultWindowDays - 1))
		if err != nil {
			return "", "", apperr.Invalid("expected YYYY-MM-DD", "end")
		}
		start = s
	}
	return start, end, nil
}
