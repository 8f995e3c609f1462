package middleware

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/gofiber/fiber/v2"
)

// TimezoneHeader carries the client's IANA zone, e.g. "Europe/Istanbul".
const TimezoneHeader = "X-Timezone"

// RequestDay resolves "today" once per request in the client's zone so every
// read and write in the request agrees on the day, even across midnight.
func RequestDay(fallback *time.Location, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		loc := calendar.LoadLocation(c.Get(TimezoneHeader), fallback)
		requestctx.SetDay(c, calendar.Today(now(), loc), loc)
		return c.Next()
	}
}
