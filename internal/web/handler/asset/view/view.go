// Package view provides the asset detail page with the content gate and the
// request-access submission.
package view

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/asset"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/gate"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	rolemw "github.com/GoMediaVault/GoMediaVault/internal/web/middleware/role"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
)

const (
	// Path is the path to the asset detail page.
	Path = handler.RootPath + "assets/:reference"

	// RequestAccessPath is the path for the request-access form submission.
	RequestAccessPath = Path + "/request-access"

	// TemplateName is the name of the asset detail template.
	TemplateName = "asset/view"

	// RestrictedTemplateName is the name of the restricted placeholder template.
	RestrictedTemplateName = "asset/restricted"
)

// Service is the asset detail handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	db   *gorm.DB
	gate *gate.Gate
}

// Handler is the asset detail handler.
var Handler = Service{}

// Init initializes the asset detail handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.gate = gate.New(db)

	app.Get(Path,
		auth.RequirePermission(authService, auth.PermAssetRead),
		s.Get,
	)
	app.Post(RequestAccessPath,
		auth.RequirePermission(authService, auth.PermAssetRead),
		s.PostRequestAccess,
	)
}

// Get handles the asset detail page. The gate decides on every load whether
// the viewer sees the full detail view or the restricted placeholder.
func (s *Service) Get(c *fiber.Ctx) error {
	a, viewer, role, err := s.load(c)
	if err != nil {
		return s.fail(c, err)
	}

	state, err := s.gate.Evaluate(a, viewer.ID, role)
	if err != nil {
		log.Error().Err(err).Str("asset", a.Reference).Uint64("viewer_id", viewer.ID).
			Msg("failed to evaluate content gate")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to evaluate access: " + err.Error())
	}

	return s.render(c, a, role, state, "")
}

// PostRequestAccess handles the request-access form submission for a
// restricted asset.
func (s *Service) PostRequestAccess(c *fiber.Ctx) error {
	a, viewer, role, err := s.load(c)
	if err != nil {
		return s.fail(c, err)
	}

	justification := c.FormValue("justification")

	state, request, err := s.gate.Submit(a, viewer.ID, role, justification)

	switch {
	case errors.Is(err, gate.ErrEmptyJustification):
		return s.render(c, a, role, state, "Please provide a justification for your request.")
	case errors.Is(err, gate.ErrJustificationTooLong):
		return s.render(c, a, role, state, "Your justification is too long; please keep it under 2000 characters.")
	case errors.Is(err, gate.ErrDuplicateRequest):
		return s.render(c, a, role, state, "You already have an open request for this asset.")
	case errors.Is(err, gate.ErrNotRestricted):
		return c.Redirect(handler.RootPath + "assets/" + a.Reference)
	case err != nil:
		log.Error().Err(err).Str("asset", a.Reference).Uint64("viewer_id", viewer.ID).
			Msg("failed to submit access request")

		return s.render(c, a, role, state, "Your request could not be saved. Please try again.")
	}

	log.Info().
		Str("asset", a.Reference).
		Str("request", request.Reference).
		Uint64("viewer_id", viewer.ID).
		Msg("Access request submitted")

	return s.render(c, a, role, state, "")
}

// errNoViewer means no signed-in user could be resolved for the request.
var errNoViewer = errors.New("no signed-in viewer")

// load resolves the asset, the signed-in viewer and the acting role for the
// current request. The caller maps errors through fail.
func (s *Service) load(c *fiber.Ctx) (*models.MediaAsset, *models.User, auth.Role, error) {
	reference := c.Params("reference")

	a, err := asset.GetByReference(s.db, reference)
	if err != nil {
		return nil, nil, auth.RoleViewer, err
	}

	user, ok := c.Locals("CurrentUser").(models.User)
	if !ok || user.ID == 0 {
		return nil, nil, auth.RoleViewer, errNoViewer
	}

	return a, &user, rolemw.FromContext(c), nil
}

// fail writes the error response for a load failure.
func (s *Service) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, asset.ErrAssetNotFound):
		return c.Status(fiber.StatusNotFound).SendString("Asset not found")
	case errors.Is(err, errNoViewer):
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	default:
		log.Error().Err(err).Str("reference", c.Params("reference")).Msg("failed to load asset")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load asset: " + err.Error())
	}
}

// render picks the full or restricted template based on the gate state.
func (s *Service) render(c *fiber.Ctx, a *models.MediaAsset, role auth.Role, state gate.State, formError string) error {
	nav := navigation.NewContext(a.Title, "library", "browse").
		AddBreadcrumb("Home", handler.RootPath+"library", false).
		AddBreadcrumb("Library", handler.RootPath+"library", false).
		AddBreadcrumb(a.Title, handler.RootPath+"assets/"+a.Reference, true)

	template := TemplateName
	if state != gate.StateVisible {
		template = RestrictedTemplateName
	}

	return c.Render(template, fiber.Map{
		"Navigation": nav,
		"Asset":      a,
		"State":      string(state),
		"Pending":    state == gate.StateRequestPending,
		"FormError":  formError,
		"CanAnalyze": auth.RoleHasPermission(role, auth.PermAssetAnalyze),
		"Menu":       c.Locals("Menu"),
		"Role":       role.String(),
	}, handler.BaseLayout)
}
