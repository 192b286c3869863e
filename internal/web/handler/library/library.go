// Package library provides the media library browse and search pages.
package library

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/asset"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/web/handler"
	rolemw "github.com/GoMediaVault/GoMediaVault/internal/web/middleware/role"
	"github.com/GoMediaVault/GoMediaVault/internal/web/navigation"
)

const (
	// Path is the path to the library page.
	Path = handler.RootPath + "library"

	// SearchPath is the path to the library search page.
	SearchPath = Path + "/search"

	// TemplateName is the name of the library template.
	TemplateName = "library/library"

	// DefaultPageSize is the default number of items per page.
	DefaultPageSize = 25

	// TabAll represents the all-assets tab.
	TabAll = "all"

	// TabVideo represents the video assets tab.
	TabVideo = "video"

	// TabPhoto represents the photo assets tab.
	TabPhoto = "photo"

	desc = "desc"
)

// Asset represents a media asset row for template rendering.
type Asset struct {
	Reference       string
	Title           string
	MediaType       string
	Classification  string
	DurationSeconds int
	Restricted      bool
}

// QueryParams holds the query and pagination parameters.
type QueryParams struct {
	Page        int
	PageSize    int
	SearchQuery string
	SortField   string
	SortOrder   string
}

// Data represents the complete library page data.
type Data struct {
	ActiveTab   string
	Assets      []Asset
	CurrentPage int
	PageSize    int
	TotalItems  int64
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
	SearchQuery string
	SortField   string
	SortOrder   string
	SearchMode  bool
}

// Service is the library handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the library handler.
var Handler = Service{}

// Init initializes the library handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	// register routes with permission checks
	app.Get(Path,
		auth.RequirePermission(authService, auth.PermLibraryView),
		s.Get,
	)
	app.Get(SearchPath,
		auth.RequirePermission(authService, auth.PermLibraryView),
		s.Get,
	)
}

// Get handles the library page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	searchMode := c.Path() == SearchPath

	// Create navigation context
	nav := navigation.NewContext("Library", "library", "browse").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Library", Path, !searchMode)

	if searchMode {
		nav = navigation.NewContext("Search", "library", "search").
			AddBreadcrumb("Home", Path, false).
			AddBreadcrumb("Library", Path, false).
			AddBreadcrumb("Search", SearchPath, true)
	}

	// Get active tab (default: all)
	activeTab := c.Query("tab", TabAll)
	if activeTab != TabAll && activeTab != TabVideo && activeTab != TabPhoto {
		activeTab = TabAll
	}

	// Parse query parameters
	params := QueryParams{
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("pageSize", DefaultPageSize),
		SearchQuery: c.Query("search", ""),
		SortField:   c.Query("sort", "created_at"),
		SortOrder:   c.Query("order", desc),
	}

	// Validate pagination parameters
	if params.Page < 1 {
		params.Page = 1
	}

	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = DefaultPageSize
	}

	listParams := asset.ListParams{
		SearchQuery: params.SearchQuery,
		SortBy:      params.SortField,
		SortDesc:    params.SortOrder == desc,
		Page:        params.Page,
		PageSize:    params.PageSize,
	}

	switch activeTab {
	case TabVideo:
		listParams.MediaType = models.MediaTypeVideo
	case TabPhoto:
		listParams.MediaType = models.MediaTypePhoto
	}

	assets, total, err := asset.List(s.db, listParams)
	if err != nil {
		log.Error().Err(err).Msg("failed to list media assets")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load library: " + err.Error())
	}

	// Below admin, code_red entries render with a lock badge. The detail
	// page makes the authoritative call; this only drives the list icon.
	role := rolemw.FromContext(c)
	restricted := !auth.AtLeast(role, auth.RoleAdmin)

	rows := make([]Asset, 0, len(assets))
	for i := range assets {
		a := &assets[i]
		rows = append(rows, Asset{
			Reference:       a.Reference,
			Title:           a.Title,
			MediaType:       string(a.MediaType),
			Classification:  string(a.Classification),
			DurationSeconds: a.DurationSeconds,
			Restricted:      restricted && a.Classification == models.ClassificationCodeRed,
		})
	}

	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	if params.Page > totalPages {
		params.Page = totalPages
	}

	data := Data{
		ActiveTab:   activeTab,
		Assets:      rows,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasPrevPage: params.Page > 1,
		HasNextPage: params.Page < totalPages,
		PrevPage:    params.Page - 1,
		NextPage:    params.Page + 1,
		SearchQuery: params.SearchQuery,
		SortField:   params.SortField,
		SortOrder:   params.SortOrder,
		SearchMode:  searchMode,
	}

	log.Debug().
		Int64("total_assets", total).
		Str("active_tab", activeTab).
		Int("page", params.Page).
		Int("page_size", params.PageSize).
		Str("search", params.SearchQuery).
		Str("sort_field", params.SortField).
		Str("sort_order", params.SortOrder).
		Msg("Library assets retrieved successfully")

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       data,
		"Menu":       c.Locals("Menu"),
		"Role":       role.String(),
	}, handler.BaseLayout)
}
