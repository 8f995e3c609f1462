package dashboard

import (
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/habits"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/nutrition"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/progression"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin owns no tables; it reads through the other apps' services.
type Plugin struct {
	ledger *progression.Ledger
}

func New(ledger *progression.Ledger) *Plugin {
	return &Plugin{ledger: ledger}
}

func (p *Plugin) ID() string { return "dashboard" }

func (p *Plugin) Models() []interface{} { return nil }

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	presenter := NewPresenter(p.ledger, nutrition.NewAggregator(db), habits.NewService(db, p.ledger))
	handler := NewDashboardHandler(presenter)

	router.Get("/dashboard", handler.Get)
}
