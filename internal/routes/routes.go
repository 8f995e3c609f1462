package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	// Prometheus scrape endpoint, outside the rate limiter
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	limit := cfg.RateLimitPerMin
	if limit <= 0 {
		limit = 120
	}
	api.Use(limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Everything a plugin mounts is per-user and needs a verified subject
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.RequireSubject())
	for _, p := range plugins {
		p.RegisterRoutes(protected, db, cfg)
	}
}
