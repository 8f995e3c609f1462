// Package requestctx reads the per-request identity and calendar day that
// middleware stores in Fiber locals.
package requestctx

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	localUser     = "user"
	localToday    = "today"
	localLocation = "location"
)

var (
	ErrNoToken   = errors.New("invalid token in context")
	ErrNoSubject = errors.New("missing sub claim")
)

// GetUserID extracts the user UUID from the JWT subject claim.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(localUser).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, ErrNoToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return uuid.Nil, ErrNoSubject
	}

	return uuid.Parse(sub)
}

// SetDay stores the request's calendar day and zone. Called once per request.
func SetDay(c *fiber.Ctx, today string, loc *time.Location) {
	c.Locals(localToday, today)
	c.Locals(localLocation, loc)
}

// GetToday returns the day resolved by the request-day middleware, or the UTC
// day when the middleware did not run.
func GetToday(c *fiber.Ctx) string {
	if today, ok := c.Locals(localToday).(string); ok && today != "" {
		return today
	}
	return time.Now().UTC().Format("2006-01-02")
}

func GetLocation(c *fiber.Ctx) *time.Location {
	if loc, ok := c.Locals(localLocation).(*time.Location); ok && loc != nil {
		return loc
	}
	return time.UTC
}
