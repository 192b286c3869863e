package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/rolestore"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler/login"
	"github.com/GoMediaVault/GoMediaVault/internal/web/session"
)

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	roles *rolestore.Store
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, roles *rolestore.Store) {
	if app == nil || cfg == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.roles = roles

	// logout route (outside auth middleware protection)
	app.Get(handler.RootPath+"logout", s.Logout)
	app.Post(handler.RootPath+"logout", s.Logout)
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	// Get session cookie
	sessionID := c.Cookies("session")
	if sessionID != "" {
		// Delete session from store
		if err := session.Store.Storage.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}

		// Drop any preview role persisted for the session
		if s.roles != nil {
			if err := s.roles.Clear(sessionID); err != nil {
				log.Error().Err(err).Msg("failed to clear preview role")
			}
		}
	}

	// Clear the session cookie
	c.Cookie(&fiber.Cookie{
		Name:     "session",
		Value:    "",
		MaxAge:   -1,
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(login.Path)
}
