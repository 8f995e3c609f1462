package middleware

import (
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies tokens minted by the identity provider.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// RequireSubject rejects authenticated requests whose subject is not a user id.
func RequireSubject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := requestctx.GetUserID(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: token subject is not a user id",
			})
		}
		return c.Next()
	}
}
