// Package assetadd provides the handler for registering new media assets.
package assetadd

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/asset"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
)

const (
	// Path is the path to the register asset page.
	Path = handler.RootPath + "assets/add"

	// TemplateName is the name of the register asset template.
	TemplateName = "asset/add"

	// PageTitle is the title of the register asset page.
	PageTitle = "Register Asset"
)

// AssetForm represents the form data for registering a new asset.
type AssetForm struct {
	Title           string `form:"title"            validate:"required,max=255"`
	Description     string `form:"description"      validate:"max=2000"`
	MediaType       string `form:"media_type"       validate:"required,oneof=video photo"`
	StorageKey      string `form:"storage_key"      validate:"required,max=512"`
	DurationSeconds int    `form:"duration_seconds" validate:"gte=0"`
	Classification  string `form:"classification"   validate:"required,oneof=public internal confidential code_red"`
}

// Service is the register asset handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the register asset handler.
var Handler = Service{}

// Init initializes the register asset handler.
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
		auth.RequirePermission(authService, auth.PermAssetCreate),
		s.Get,
	)
	app.Post(Path,
		auth.RequirePermission(authService, auth.PermAssetCreate),
		s.Post,
	)
}

// nav builds the navigation context for the register asset page.
func nav() *navigation.Context {
	return navigation.NewContext(PageTitle, "upload", "add").
		AddBreadcrumb("Home", handler.RootPath+"library", false).
		AddBreadcrumb("Library", handler.RootPath+"library", false).
		AddBreadcrumb(PageTitle, Path, true)
}

// Get handles the register asset page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	// Render empty form
	return c.Render(TemplateName, fiber.Map{
		"Navigation":      nav(),
		"Form":            &AssetForm{},
		"Classifications": models.Classifications,
		"Menu":            c.Locals("Menu"),
	}, handler.BaseLayout)
}

// Post handles the register asset form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	// Parse form data
	form := &AssetForm{}
	if err := c.BodyParser(form); err != nil {
		log.Error().Err(err).Msg("failed to parse register asset form")

		return s.renderError(c, form, fiber.StatusBadRequest, []string{"Invalid form data"})
	}

	// Validate form
	if err := s.validator.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)

		errorMessages := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			errorMessages[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		log.Error().Err(err).Msg("validation failed for register asset")

		return s.renderError(c, form, fiber.StatusBadRequest, errorMessages)
	}

	user, ok := c.Locals("CurrentUser").(models.User)
	if !ok || user.ID == 0 {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}

	a := &models.MediaAsset{
		Title:           form.Title,
		Description:     form.Description,
		MediaType:       models.MediaType(form.MediaType),
		StorageKey:      form.StorageKey,
		DurationSeconds: form.DurationSeconds,
		Classification:  models.Classification(form.Classification),
		UploadedBy:      user.ID,
	}

	if err := asset.Create(s.db, a); err != nil {
		log.Error().Err(err).Str("title", form.Title).Msg("failed to register asset")

		return s.renderError(c, form, fiber.StatusInternalServerError, []string{"Failed to register asset: " + err.Error()})
	}

	log.Info().
		Str("asset", a.Reference).
		Str("title", a.Title).
		Str("media_type", string(a.MediaType)).
		Str("classification", string(a.Classification)).
		Uint64("uploaded_by", user.ID).
		Msg("Asset registered successfully")

	return c.Redirect(handler.RootPath + "assets/" + a.Reference)
}

// renderError re-renders the form with error messages.
func (s *Service) renderError(c *fiber.Ctx, form *AssetForm, status int, messages []string) error {
	return c.Status(status).Render(TemplateName, fiber.Map{
		"Navigation":      nav(),
		"Form":            form,
		"Classifications": models.Classifications,
		"Error":           messages,
		"Menu":            c.Locals("Menu"),
	}, handler.BaseLayout)
}
