package routes

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubPlugin struct{}

func (stubPlugin) ID() string            { return "stub" }
func (stubPlugin) Models() []interface{} { return nil }
func (stubPlugin) RegisterRoutes(router fiber.Router, _ *gorm.DB, _ *config.Config) {
	router.Get("/stub", func(c *fiber.Ctx) error { return c.SendString("ok") })
}

func newApp() *fiber.App {
	app := fiber.New()
	cfg := &config.Config{JWTSecret: "test-secret", RateLimitPerMin: 1000}
	health := handlers.NewHealthHandler(func() error { return nil })
	Setup(app, cfg, nil, health, []apps.Plugin{stubPlugin{}})
	return app
}

func TestHealthIsPublic(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPluginRoutesRequireToken(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/api/stub", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMetricsExposed(t *testing.T) {
	app := newApp()
	_, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "go_goroutines")
}
