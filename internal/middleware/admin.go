package middleware

import (
	"crypto/subtle"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired admits a request when any of these hold:
// 1. X-Admin-Token matches ADMIN_TOKEN
// 2. APP_ENV=development
// 3. the authenticated user has the admin role in the store
//
// It does not parse tokens itself; mount it after JWTProtected or
// OptionalJWT when role based access should apply.
func AdminRequired(users store.UserStore, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			given := c.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(given), []byte(cfg.AdminToken)) == 1 {
				return c.Next()
			}
		}

		if cfg.IsDevelopment() {
			return c.Next()
		}

		userID, err := session.GetUserID(c)
		if err != nil {
			return services.ErrCredentialMissing
		}

		user, err := users.GetUser(c.UserContext(), userID)
		if err == nil && user.Role == models.RoleAdmin {
			return c.Next()
		}

		return services.Forbidden("admin access required")
	}
}

// OptionalJWT parses a bearer token when one is present and otherwise lets
// the request through untouched. An invalid token is still rejected.
func OptionalJWT(cfg *config.Config) fiber.Handler {
	protected := JWTProtected(cfg)
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		return protected(c)
	}
}
