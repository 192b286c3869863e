// Package rolepreview provides the role preview page: a super admin can
// render the console as any role to verify what that role sees. The preview
// only ever narrows visibility; authorization checks keep using the verified
// effective role.
package rolepreview

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/rolestore"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	rolemw "github.com/GoMediaVault/GoMediaVault/internal/web/middleware/role"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
)

const (
	// Path is the path to the role preview page.
	Path = handler.RootPath + "settings/role-preview"

	// ResetPath is the path for clearing the preview.
	ResetPath = Path + "/reset"

	// TemplateName is the name of the role preview template.
	TemplateName = "settings/role-preview"

	// PageTitle is the title of the role preview page.
	PageTitle = "Role Preview"
)

// Service is the role preview handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	db    *gorm.DB
	roles *rolestore.Store
}

// Handler is the role preview handler.
var Handler = Service{}

// Init initializes the role preview handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service, roles *rolestore.Store) {
	if app == nil || cfg == nil || db == nil || roles == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.roles = roles

	// register routes with permission checks
	app.Get(Path,
		auth.RequireRole(authService, auth.RoleSuperAdmin),
		s.Get,
	)
	app.Post(Path,
		auth.RequireRole(authService, auth.RoleSuperAdmin),
		s.Post,
	)
	app.Post(ResetPath,
		auth.RequireRole(authService, auth.RoleSuperAdmin),
		s.PostReset,
	)
}

// nav builds the navigation context for the role preview page.
func nav() *navigation.Context {
	return navigation.NewContext(PageTitle, "admin", "role-preview").
		AddBreadcrumb("Home", handler.RootPath+"library", false).
		AddBreadcrumb("Settings", "#", false).
		AddBreadcrumb(PageTitle, Path, true)
}

// Get handles the role preview page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	var (
		preview    auth.Role
		previewing bool
	)

	if sessionID := c.Cookies("session"); sessionID != "" {
		preview, previewing = s.roles.Get(sessionID)
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation":    nav(),
		"Roles":         auth.Roles,
		"Preview":       preview.String(),
		"Previewing":    previewing,
		"EffectiveRole": rolemw.EffectiveFromContext(c).String(),
		"Menu":          c.Locals("Menu"),
	}, handler.BaseLayout)
}

// Post sets the preview role for the current session.
func (s *Service) Post(c *fiber.Ctx) error {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}

	requested := auth.Role(c.FormValue("role"))

	err := s.roles.Set(sessionID, requested)
	if errors.Is(err, rolestore.ErrInvalidRole) {
		return c.Status(fiber.StatusBadRequest).Render(TemplateName, fiber.Map{
			"Navigation":    nav(),
			"Roles":         auth.Roles,
			"EffectiveRole": rolemw.EffectiveFromContext(c).String(),
			"Error":         "Unknown role: " + string(requested),
			"Menu":          c.Locals("Menu"),
		}, handler.BaseLayout)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to persist preview role")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save preview role")
	}

	log.Info().Str("preview_role", requested.String()).Msg("Role preview enabled")

	return c.Redirect(Path)
}

// PostReset clears the preview role for the current session.
func (s *Service) PostReset(c *fiber.Ctx) error {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}

	if err := s.roles.Clear(sessionID); err != nil {
		log.Error().Err(err).Msg("failed to clear preview role")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to clear preview role")
	}

	return c.Redirect(Path)
}
