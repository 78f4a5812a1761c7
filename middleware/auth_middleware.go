package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	config "github.com/tutorcenter/scheduler/configs"
)

// TokenCookie carries the login JWT for browser clients.
const TokenCookie = "jwt"

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Settings.JWTSecret),
		TokenLookup:  "header:Authorization,cookie:" + TokenCookie,
		AuthScheme:   "Bearer",
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func AdminRequired() fiber.Handler {
	return RoleRequired(RoleAdmin)
}

// RoleRequired admits principals holding one of roles. It must run after
// ResolvePrincipal.
func RoleRequired(roles ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := CurrentPrincipal(c)
		for _, r := range roles {
			if p.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not authorized to access this page.",
		})
	}
}
