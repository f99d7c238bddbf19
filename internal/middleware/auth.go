package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"blogcms/internal/domain"
	"blogcms/internal/service/auth"
)

const ModeratorContextKey = "moderator"

// AdminRequired accepts a Bearer access token and stores the moderator it
// identifies in the request locals.
func AdminRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return Unauthorized("UNAUTHORIZED")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return Unauthorized("UNAUTHORIZED")
		}

		claims, err := authService.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		c.Locals(ModeratorContextKey, claims.Moderator())
		return c.Next()
	}
}

// GetModerator returns the moderator set by AdminRequired.
func GetModerator(c *fiber.Ctx) (domain.Moderator, error) {
	moderator, ok := c.Locals(ModeratorContextKey).(domain.Moderator)
	if !ok || moderator.ID == "" {
		return domain.Moderator{}, Unauthorized("UNAUTHORIZED")
	}
	return moderator, nil
}
