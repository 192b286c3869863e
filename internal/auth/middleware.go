package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMediaVault/GoMediaVault/internal/web/session"
)

// sessionUserID extracts the authenticated user ID from the request's session
// cookie. Returns 0 when no valid session exists.
func sessionUserID(c *fiber.Ctx) uint64 {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return 0
	}

	sessionData := new(session.Data)
	if err := sessionData.Read(sessionID); err != nil {
		return 0
	}

	return sessionData.User.ID
}

// RequireRole creates Fiber middleware that requires an effective role of at
// least the given role.
func RequireRole(authService *Service, required Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := sessionUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		hasRole, err := authService.HasRole(userID, required)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Str("required_role", required.String()).
				Msg("Failed to resolve effective role")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !hasRole {
			log.Warn().Uint64("user_id", userID).Str("required_role", required.String()).
				Msg("User lacks required role")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires a specific named
// permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := sessionUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		hasPermission, err := authService.HasPermission(userID, permission)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Str("permission", permission).
				Msg("Failed to check permission")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !hasPermission {
			log.Warn().Uint64("user_id", userID).Str("permission", permission).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// HasPermissionInContext checks if the current user in the Fiber context has a permission.
// Useful for conditional rendering in handlers.
func HasPermissionInContext(c *fiber.Ctx, authService *Service, permission string) bool {
	userID := sessionUserID(c)
	if userID == 0 {
		return false
	}

	hasPermission, err := authService.HasPermission(userID, permission)
	if err != nil {
		return false
	}

	return hasPermission
}
