package dashboard

import (
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	presenter *Presenter
}

func NewDashboardHandler(presenter *Presenter) *DashboardHandler {
	return &DashboardHandler{presenter: presenter}
}

func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	userID, err := requestctx.GetUserID(c)
	if err != nil {
		return handlers.Unauthorized(c)
	}

	view, err := h.presenter.Build(c.UserContext(), userID, requestctx.GetToday(c))
	if err != nil {
		return handlers.Fail(c, err, "Failed to build dashboard")
	}
	return c.JSON(view)
}
