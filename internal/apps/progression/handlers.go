package progression

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	ledger  *Ledger
	service *ProfileService
}

func NewProfileHandler(ledger *Ledger, service *ProfileService) *ProfileHandler {
	return &ProfileHandler{ledger: ledger, service: service}
}

// Ensure is called by clients at session start.
func (h *ProfileHandler) Ensure(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	p, err := h.ledger.EnsureProfile(c.UserContext(), userID)
	if err != nil {
		return handlers.Fail(c, err, "Failed to provision profile")
	}
	return c.JSON(Snapshot(p))
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	p, err := h.ledger.Profile(c.UserContext(), userID)
	if err != nil {
		return handlers.Fail(c, err, "Failed to load profile")
	}
	return c.JSON(Snapshot(p))
}

func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	var req CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}

	p, err := h.service.CreateProfile(c.UserContext(), userID, req, requestctx.GetToday(c))
	if err != nil {
		return handlers.Fail(c, err, "Failed to create profile")
	}
	return c.Status(fiber.StatusCreated).JSON(Snapshot(p))
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}

	p, err := h.service.UpdateProfile(c.UserContext(), userID, req, requestctx.GetToday(c))
	if err != nil {
		return handlers.Fail(c, err, "Failed to update profile")
	}
	return c.JSON(Snapshot(p))
}

func (h *ProfileHandler) WeightHistory(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "90"))
	rows, err := h.service.WeightHistory(c.UserContext(), userID, limit)
	if err != nil {
		return handlers.Fail(c, err, "Failed to load weight history")
	}
	return c.JSON(fiber.Map{"entries": rows})
}

// Award applies a raw XP amount. Reward-table awards happen server-side in
// the logging flows; this exists for future reward kinds.
func (h *ProfileHandler) Award(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	var req AwardRequest
	if err := c.BodyParser(&req); err != nil {
		return handlers.BadBody(c)
	}
	amount, ok := req.Amount.Int()
	if !ok {
		return handlers.Fail(c, apperr.Invalid("amount must be a positive integer", "amount"), "")
	}

	award, err := h.ledger.AwardXP(c.UserContext(), userID, amount)
	if err != nil {
		return handlers.Fail(c, err, "Failed to award XP")
	}
	return c.JSON(award)
}
