package habits

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/progression"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listBody struct {
	Date   string        `json:"date"`
	Habits []HabitStatus `json:"habits"`
}

func newTestApp(t *testing.T, userID uuid.UUID) *fiber.App {
	t.Helper()
	db := dbtest.Open(t,
		&progression.Profile{}, &progression.WeightHistory{},
		&Habit{}, &HabitCompletion{}, &HabitSeed{},
	)
	ledger := progression.NewLedger(db, 2500)
	now := time.Date(2024, 7, 1, 23, 30, 0, 0, time.UTC)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sub": userID.String()}})
		return c.Next()
	})
	app.Use(middleware.RequestDay(time.UTC, func() time.Time { return now }))
	New(ledger).RegisterRoutes(app.Group("/api"), db, &config.Config{})
	return app
}

func listHabits(t *testing.T, app *fiber.App, header string) listBody {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/habits", nil)
	if header != "" {
		req.Header.Set(middleware.TimezoneHeader, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body listBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestToggleEndpointRoundTrip(t *testing.T) {
	app := newTestApp(t, uuid.New())

	list := listHabits(t, app, "")
	require.Len(t, list.Habits, 3)
	id := list.Habits[0].ID.String()

	resp, err := app.Test(httptest.NewRequest("POST", "/api/habits/"+id+"/toggle", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res ToggleResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.True(t, res.Completed)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, "2024-07-01", res.Date)
	require.NotNil(t, res.Award)

	list = listHabits(t, app, "")
	assert.True(t, list.Habits[0].Completed)

	// the same instant is already July 2nd in Tokyo
	list = listHabits(t, app, "Asia/Tokyo")
	assert.Equal(t, "2024-07-02", list.Date)
	assert.False(t, list.Habits[0].Completed)
}

func TestToggleEndpointRejectsBadID(t *testing.T) {
	app := newTestApp(t, uuid.New())

	resp, err := app.Test(httptest.NewRequest("POST", "/api/habits/not-a-uuid/toggle", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/habits/"+uuid.NewString()+"/toggle", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateAndDeleteEndpoints(t *testing.T) {
	app := newTestApp(t, uuid.New())

	req := httptest.NewRequest("POST", "/api/habits", strings.NewReader(`{"name":"Stretch","icon":"🧘"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created Habit
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "Stretch", created.Name)

	// creating first marks the user as seeded
	assert.Len(t, listHabits(t, app, "").Habits, 1)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/habits/"+created.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, listHabits(t, app, "").Habits)
}
