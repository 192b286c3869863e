// Package analytics provides the library analytics page.
package analytics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/accessrequest"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/asset"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
)

const (
	// Path is the path to the analytics page.
	Path = handler.RootPath + "analytics"

	// TemplateName is the name of the analytics template.
	TemplateName = "analytics/analytics"

	// PageTitle is the title of the analytics page.
	PageTitle = "Library Analytics"
)

// ClassificationCount is one row of the classification breakdown.
type ClassificationCount struct {
	Level string
	Count int64
}

// Service is the analytics handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the analytics handler.
var Handler = Service{}

// Init initializes the analytics handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	// register routes with permission checks
	app.Get(Path,
		auth.RequirePermission(authService, auth.PermAnalyticsView),
		s.Get,
	)
}

// Get handles the analytics page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext(PageTitle, "analytics", "analytics").
		AddBreadcrumb("Home", handler.RootPath+"library", false).
		AddBreadcrumb(PageTitle, Path, true)

	counts, err := asset.CountByClassification(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count assets by classification")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load analytics: " + err.Error())
	}

	// Render the breakdown in ascending sensitivity order, including empty
	// levels so the table shape is stable.
	var total int64

	breakdown := make([]ClassificationCount, 0, len(models.Classifications))
	for _, level := range models.Classifications {
		breakdown = append(breakdown, ClassificationCount{
			Level: string(level),
			Count: counts[level],
		})
		total += counts[level]
	}

	pending, err := accessrequest.ListPending(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count pending access requests")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load analytics: " + err.Error())
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation":      nav,
		"Breakdown":       breakdown,
		"TotalAssets":     total,
		"PendingRequests": len(pending),
		"Menu":            c.Locals("Menu"),
	}, handler.BaseLayout)
}
