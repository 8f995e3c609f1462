package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayApp(fallback *time.Location, now time.Time) *fiber.App {
	app := fiber.New()
	app.Use(RequestDay(fallback, func() time.Time { return now }))
	app.Get("/day", func(c *fiber.Ctx) error {
		return c.SendString(requestctx.GetToday(c) + " " + requestctx.GetLocation(c).String())
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestRequestDayUsesHeaderZone(t *testing.T) {
	now := time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)
	app := dayApp(time.UTC, now)

	_, got := get(t, app, "/day", map[string]string{TimezoneHeader: "America/New_York"})
	assert.Equal(t, "2023-12-31 America/New_York", got)
}

func TestRequestDayFallsBackOnUnknownZone(t *testing.T) {
	istanbul, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	app := dayApp(istanbul, now)

	_, got := get(t, app, "/day", map[string]string{TimezoneHeader: "Mars/Olympus"})
	assert.Equal(t, "2024-01-02 Europe/Istanbul", got)

	_, got = get(t, app, "/day", nil)
	assert.Equal(t, "2024-01-02 Europe/Istanbul", got)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJWTProtectedAndRequireSubject(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := fiber.New()
	app.Get("/me", JWTProtected(cfg), RequireSubject(), func(c *fiber.Ctx) error {
		id, err := requestctx.GetUserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})

	user := uuid.New()
	exp := time.Now().Add(time.Hour).Unix()

	status, got := get(t, app, "/me", map[string]string{
		"Authorization": "Bearer " + signed(t, "test-secret", jwt.MapClaims{"sub": user.String(), "exp": exp}),
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, user.String(), got)

	status, _ = get(t, app, "/me", map[string]string{
		"Authorization": "Bearer " + signed(t, "other-secret", jwt.MapClaims{"sub": user.String(), "exp": exp}),
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/me", map[string]string{
		"Authorization": "Bearer " + signed(t, "test-secret", jwt.MapClaims{"sub": "service-account", "exp": exp}),
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = get(t, app, "/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
