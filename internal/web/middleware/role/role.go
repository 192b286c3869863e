// Package role resolves the effective role for the current request and
// exposes it, together with the derived permission set and the filtered
// navigation menu, through fiber.Locals.
package role

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/rolestore"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
	"github.com/GoMediaVault/GoMediaVault/internal/web/session"
)

// Middleware creates Fiber middleware that resolves the signed-in user's
// effective role once per request. When the session carries a preview role,
// the request is rendered with the lower of the preview role and the
// effective role, so previewing can narrow the UI but never widen it.
// Authorization checks elsewhere always use the verified effective role.
func Middleware(authService *auth.Service, roles *rolestore.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session")
		if sessionID == "" {
			return c.Next()
		}

		sessData := new(session.Data)
		if err := sessData.Read(sessionID); err != nil || sessData.User.ID == 0 {
			return c.Next()
		}

		effective, err := authService.EffectiveRole(sessData.User.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessData.User.ID).
				Msg("Failed to resolve effective role")

			return c.Next()
		}

		rendered := effective
		if preview, ok := roles.Get(sessionID); ok {
			if auth.Rank(preview) < auth.Rank(effective) {
				rendered = preview
			}
			c.Locals("PreviewRole", preview)
		}

		c.Locals("EffectiveRole", effective)
		c.Locals("Role", rendered)
		c.Locals("Permissions", auth.PermissionsOf(rendered))
		c.Locals("Menu", navigation.VisibleSections(navigation.DefaultMenu(), rendered))

		return c.Next()
	}
}

// FromContext returns the role the current request is rendered with. Falls
// back to the lowest-privilege role when the middleware did not run, so
// callers never see an unset role.
func FromContext(c *fiber.Ctx) auth.Role {
	if r, ok := c.Locals("Role").(auth.Role); ok {
		return r
	}

	return auth.RoleViewer
}

// EffectiveFromContext returns the verified effective role for the current
// request, ignoring any preview override.
func EffectiveFromContext(c *fiber.Ctx) auth.Role {
	if r, ok := c.Locals("EffectiveRole").(auth.Role); ok {
		return r
	}

	return auth.RoleViewer
}
