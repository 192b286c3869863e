// Package requests provides the reviewer queue for access requests.
package requests

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/accessrequest"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/asset"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/user"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
)

const (
	// Path is the path to the access request queue.
	Path = handler.RootPath + "admin/requests"

	// ReviewPath is the path for review decisions.
	ReviewPath = Path + "/:id/review"

	// TemplateName is the name of the request queue template.
	TemplateName = "admin/requests"

	// PageTitle is the title of the request queue page.
	PageTitle = "Access Requests"
)

// Row represents one pending request for template rendering.
type Row struct {
	ID             uint64
	Reference      string
	AssetTitle     string
	AssetReference string
	Requester      string
	Purpose        string
	CreatedAt      string
}

// Service is the access request queue handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the access request queue handler.
var Handler = Service{}

// Init initializes the access request queue handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	// register routes with permission checks
	app.Get(Path,
		auth.RequirePermission(authService, auth.PermRequestReview),
		s.Get,
	)
	app.Post(ReviewPath,
		auth.RequirePermission(authService, auth.PermRequestReview),
		s.PostReview,
	)
}

// Get handles the request queue rendering. Requests are listed oldest first
// so the longest-waiting requester is reviewed first.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext(PageTitle, "analytics", "requests").
		AddBreadcrumb("Home", handler.RootPath+"library", false).
		AddBreadcrumb(PageTitle, Path, true)

	pending, err := accessrequest.ListPending(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list pending access requests")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load requests: " + err.Error())
	}

	rows := make([]Row, 0, len(pending))

	for i := range pending {
		r := &pending[i]

		row := Row{
			ID:        r.ID,
			Reference: r.Reference,
			Purpose:   r.Purpose,
			CreatedAt: r.CreatedAt.Format("2006-01-02 15:04"),
		}

		if a, errAsset := asset.Get(s.db, r.AssetID); errAsset == nil {
			row.AssetTitle = a.Title
			row.AssetReference = a.Reference
		}

		if u, errUser := user.Get(s.db, r.RequesterID); errUser == nil {
			row.Requester = u.Username
		}

		rows = append(rows, row)
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Requests":   rows,
		"Menu":       c.Locals("Menu"),
	}, handler.BaseLayout)
}

// PostReview handles an approve or reject decision for a pending request.
func (s *Service) PostReview(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request ID")
	}

	decision := c.FormValue("decision")
	if decision != "approve" && decision != "reject" {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid decision")
	}

	reviewer, ok := c.Locals("CurrentUser").(models.User)
	if !ok || reviewer.ID == 0 {
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}

	request, err := accessrequest.Review(s.db, id, reviewer.ID, decision == "approve")

	switch {
	case errors.Is(err, accessrequest.ErrRequestNotFound):
		return c.Status(fiber.StatusNotFound).SendString("Request not found")
	case errors.Is(err, accessrequest.ErrAlreadyReviewed):
		return c.Status(fiber.StatusConflict).SendString("Request has already been reviewed")
	case err != nil:
		log.Error().Err(err).Uint64("request_id", id).Msg("failed to review access request")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to review request: " + err.Error())
	}

	log.Info().
		Str("request", request.Reference).
		Str("decision", decision).
		Uint64("reviewer_id", reviewer.ID).
		Msg("Access request reviewed")

	return c.Redirect(Path)
}
