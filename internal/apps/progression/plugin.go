package progression

import (
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Plugin struct {
	ledger *Ledger
}

// New takes the shared ledger; the other apps award XP through the same one.
func New(ledger *Ledger) *Plugin {
	return &Plugin{ledger: ledger}
}

func (p *Plugin) ID() string { return "progression" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Profile{},
		&WeightHistory{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewProfileService(db, p.ledger)
	handler := NewProfileHandler(p.ledger, svc)

	router.Post("/profile/ensure", handler.Ensure)
	router.Post("/profile", handler.Create)
	router.Get("/profile", handler.Get)
	router.Patch("/profile", handler.Update)
	router.Get("/profile/weight-history", handler.WeightHistory)

	router.Post("/progress/xp", handler.Award)
}
