package habits

import (
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/progression"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Plugin struct {
	ledger *progression.Ledger
}

func New(ledger *progression.Ledger) *Plugin {
	return &Plugin{ledger: ledger}
}

func (p *Plugin) ID() string { return "habits" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Habit{},
		&HabitCompletion{},
		&HabitSeed{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHabitHandler(NewService(db, p.ledger))

	router.Get("/habits", handler.List)
	router.Post("/habits", handler.Create)
	router.Delete("/habits/:id", handler.Delete)
	router.Post("/habits/:id/toggle", handler.Toggle)
}
