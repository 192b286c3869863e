// Package analyze provides the AI analysis pages: a queue of assets that
// have not been analyzed yet and the per-asset analysis trigger.
package analyze

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/analysis"
	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/asset"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
)

const (
	// Path is the path to the AI analysis page.
	Path = handler.RootPath + "assets/analyze"

	// TriggerPath is the path for triggering analysis of a single asset.
	TriggerPath = handler.RootPath + "assets/:reference/analyze"

	// TemplateName is the name of the analysis page template.
	TemplateName = "asset/analyze"

	// PageTitle is the title of the AI analysis page.
	PageTitle = "AI Analysis"

	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 25

	defaultTimeout = 180 * time.Second
)

// Service is the AI analysis handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the AI analysis handler.
var Handler = Service{}

// Init initializes the AI analysis handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	// register routes with permission checks
	app.Get(Path,
		auth.RequirePermission(authService, auth.PermAssetAnalyze),
		s.Get,
	)
	app.Post(TriggerPath,
		auth.RequirePermission(authService, auth.PermAssetAnalyze),
		s.Post,
	)
}

// Get handles the analysis page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext(PageTitle, "upload", "analyze").
		AddBreadcrumb("Home", handler.RootPath+"library", false).
		AddBreadcrumb(PageTitle, Path, true)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	assets, total, err := asset.List(s.db, asset.ListParams{
		SortBy:   "created_at",
		SortDesc: true,
		Page:     page,
		PageSize: DefaultPageSize,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to list assets for analysis")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load assets: " + err.Error())
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Assets":     assets,
		"Total":      total,
		"Page":       page,
		"Menu":       c.Locals("Menu"),
	}, handler.BaseLayout)
}

// Post triggers AI analysis for a single asset and stores the derived
// metadata. The call is synchronous and fire-once: a failed analysis is
// surfaced to the user and can be retried manually.
func (s *Service) Post(c *fiber.Ctx) error {
	reference := c.Params("reference")

	a, err := asset.GetByReference(s.db, reference)
	if errors.Is(err, asset.ErrAssetNotFound) {
		return c.Status(fiber.StatusNotFound).SendString("Asset not found")
	}

	if err != nil {
		log.Error().Err(err).Str("reference", reference).Msg("failed to load asset for analysis")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load asset: " + err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result, err := analysis.Engine.AnalyzeAsset(ctx, a)
	if err != nil {
		log.Error().Err(err).Str("asset", a.Reference).Msg("AI analysis failed")

		if errors.Is(err, analysis.ErrClientNotInitialized) {
			return c.Status(fiber.StatusServiceUnavailable).SendString("AI gateway is not configured")
		}

		return c.Status(fiber.StatusBadGateway).SendString("AI analysis failed: " + err.Error())
	}

	err = asset.StoreAnalysis(s.db, a.ID, result.Summary, result.Sentiment, result.Faces, result.Vehicles, result.Brands)
	if err != nil {
		log.Error().Err(err).Str("asset", a.Reference).Msg("failed to store analysis result")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to store analysis: " + err.Error())
	}

	log.Info().
		Str("asset", a.Reference).
		Str("sentiment", result.Sentiment).
		Int("faces", result.Faces).
		Int("vehicles", result.Vehicles).
		Int("brands", result.Brands).
		Msg("Asset analyzed successfully")

	return c.Redirect(handler.RootPath + "assets/" + a.Reference)
}
