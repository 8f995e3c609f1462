package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordXP(t *testing.T) {
	before := testutil.ToFloat64(xpAwarded.WithLabelValues("log_food"))
	beforeLevels := testutil.ToFloat64(levelUps)

	RecordXP("log_food", 10, false)
	RecordXP("log_food", 10, true)

	assert.Equal(t, before+20, testutil.ToFloat64(xpAwarded.WithLabelValues("log_food")))
	assert.Equal(t, beforeLevels+1, testutil.ToFloat64(levelUps))
}

func TestRecordHabitToggle(t *testing.T) {
	before := testutil.ToFloat64(habitToggles.WithLabelValues("completed"))
	RecordHabitToggle(true)
	assert.Equal(t, before+1, testutil.ToFloat64(habitToggles.WithLabelValues("completed")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/metrics", adaptor.HTTPHandler(Handler()))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping", "200"))

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping", "200")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "nutriquest_http_requests_total")
}
