// Package gateway provides the AI gateway settings page in the admin area.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/analysis"
	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	controller "github.com/GoMediaVault/GoMediaVault/internal/db/controller/gateway"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/setting"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
)

const (
	// Path is the path to the AI gateway settings page.
	Path = handler.RootPath + "admin/settings/gateway"

	// TemplateName is the name of the AI gateway settings template.
	TemplateName = "admin/settings/gateway"

	testTimeout = 30 * time.Second
)

// Service is the AI gateway settings handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the AI gateway settings handler.
var Handler = Service{}

// Init initializes the AI gateway settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	// register routes with permission checks
	app.Get(Path,
		auth.RequirePermission(authService, auth.PermAdminGateway),
		s.Get,
	)
	app.Post(Path,
		auth.RequirePermission(authService, auth.PermAdminGateway),
		s.Post,
	)
}

// nav builds the navigation context for the gateway settings page.
func nav() *navigation.Context {
	return navigation.NewContext("AI Gateway Settings", "admin", "gateway").
		AddBreadcrumb("Home", handler.RootPath+"library", false).
		AddBreadcrumb("Settings", "#", false).
		AddBreadcrumb("AI Gateway", Path, true)
}

// Get handles the AI gateway settings page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	// Load gateway settings
	settings := &controller.Settings{}
	if err := settings.Load(s.db); err != nil {
		// If settings don't exist yet, render form with empty values
		if errors.Is(err, setting.ErrSettingNotFound) {
			log.Debug().Msg("AI gateway settings not found, rendering empty form")

			return c.Render(TemplateName, fiber.Map{
				"Settings":   settings,
				"Navigation": nav(),
				"Menu":       c.Locals("Menu"),
			}, handler.BaseLayout)
		}

		// Log and return error for other failures
		log.Error().Err(err).Msg("failed to load AI gateway settings")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load settings")
	}

	// Render form with loaded settings
	return c.Render(
		TemplateName,
		fiber.Map{
			"Settings":   settings,
			"Navigation": nav(),
			"Menu":       c.Locals("Menu"),
		}, handler.BaseLayout)
}

// Post handles the AI gateway settings form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	// Parse form data into settings struct
	settings := &controller.Settings{}
	if err := c.BodyParser(settings); err != nil {
		log.Error().Err(err).Msg("failed to parse AI gateway settings form")

		return c.Status(fiber.StatusBadRequest).Render(
			TemplateName, fiber.Map{
				"Settings":   settings,
				"Navigation": nav(),
				"Error":      "Invalid form data",
			}, handler.BaseLayout)
	}

	// Validate settings
	if err := s.validator.Struct(settings); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)

		errorMessages := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			errorMessages[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		log.Error().Err(err).Msg("validation failed for AI gateway settings")

		return c.Status(fiber.StatusBadRequest).Render(
			TemplateName, fiber.Map{
				"Settings":   settings,
				"Navigation": nav(),
				"Error":      errorMessages,
			}, handler.BaseLayout)
	}

	// Save settings to database
	if err := settings.Save(s.db); err != nil {
		log.Error().Err(err).Msg("failed to save AI gateway settings")

		return c.Status(fiber.StatusInternalServerError).Render(
			TemplateName, fiber.Map{
				"Settings":   settings,
				"Navigation": nav(),
				"Error":      "Failed to save settings",
			}, handler.BaseLayout)
	}

	// Log success
	log.Info().
		Str("base_url", settings.BaseURL).
		Str("model", settings.Model).
		Msg("AI gateway settings saved successfully")

	// Re-initialize the gateway client with new settings asynchronously to avoid blocking the request
	go func(db *gorm.DB) {
		if err := analysis.Open(db); err != nil {
			log.Error().Err(err).Msg("failed to initialize AI gateway client after settings update")
			return
		}

		// Test the gateway connection with new settings (non-blocking, log-only)
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		if err := analysis.Engine.Test(ctx); err != nil {
			log.Error().Err(err).Msg("failed to connect to AI gateway with new settings")
		}
	}(s.db)

	// Redirect to the same page with success message
	return c.Render(
		TemplateName, fiber.Map{
			"Settings":   settings,
			"Navigation": nav(),
			"Success":    "Settings saved successfully",
			"Menu":       c.Locals("Menu"),
		}, handler.BaseLayout)
}
