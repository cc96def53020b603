package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"travelhub/internal/domain"
	applog "travelhub/internal/log"
	"travelhub/internal/services"
)

// Authenticate resolves an optional bearer token. No header means anonymous;
// a header that does not verify is rejected outright.
func Authenticate(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if h == "" {
			return c.Next()
		}
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			applog.Security(c, "auth.token.invalid", map[string]any{"reason": "malformed_header"})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Given token not valid for any token type."})
		}
		u, err := auth.Authenticate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Given token not valid for any token type."})
		}
		c.Locals("user", u)
		c.Locals("user_id", u.ID)
		return c.Next()
	}
}

// RequireUser enforces an authenticated identity.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			applog.Security(c, "access.denied.anonymous", nil)
			return respondError(c, domain.ErrUnauthorized)
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
