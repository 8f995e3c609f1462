package nutrition

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

func (p *Plugin) ID() string { return "nutrition" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&LogEntry{},
		&WaterLog{},
		&DailyLog{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	logHandler := NewLogHandler(NewLogService(db, p.ledger))
	statsHandler := NewStatsHandler(NewAggregator(db))

	router.Post("/food", logHandler.LogFood)
	router.Get("/food", logHandler.ListFood)
	router.Post("/water", logHandler.LogWater)

	router.Get("/stats/daily", statsHandler.Daily)
	router.Get("/stats/window", statsHandler.Window)
	router.Get("/stats/water", statsHandler.Water)
	router.Get("/stats/consistency", statsHandler.Consistency)
}
