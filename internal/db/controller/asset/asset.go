// Package asset provides CRUD operations for media assets.
package asset

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/uniuri"
)

var (
	// ErrAssetNotFound is returned when an asset is not found.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrTitleEmpty is returned when attempting to create an asset with an empty title.
	ErrTitleEmpty = errors.New("asset title cannot be empty")
	// ErrInvalidClassification is returned for classification values outside the defined levels.
	ErrInvalidClassification = errors.New("invalid classification level")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// ListParams holds filtering, sorting and pagination parameters for List.
type ListParams struct {
	MediaType   models.MediaType // empty means all types
	SearchQuery string
	SortBy      string // title, created_at, duration
	SortDesc    bool
	Page        int
	PageSize    int
}

// sortColumns maps the allowed sort keys to their columns. Anything else
// falls back to created_at to keep user input out of the ORDER BY clause.
var sortColumns = map[string]string{
	"title":      "title",
	"created_at": "created_at",
	"duration":   "duration_seconds",
}

// Get retrieves an asset by its ID.
func Get(db *gorm.DB, id uint64) (*models.MediaAsset, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var a models.MediaAsset
	result := db.First(&a, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, result.Error
	}

	return &a, nil
}

// GetByReference retrieves an asset by its public reference.
func GetByReference(db *gorm.DB, reference string) (*models.MediaAsset, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var a models.MediaAsset
	result := db.Where("reference = ?", reference).First(&a)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, result.Error
	}

	return &a, nil
}

// List retrieves assets matching the given parameters plus the total count
// before pagination.
func List(db *gorm.DB, params ListParams) ([]models.MediaAsset, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	query := db.Model(&models.MediaAsset{})

	if params.MediaType != "" {
		query = query.Where("media_type = ?", params.MediaType)
	}

	if q := strings.TrimSpace(params.SearchQuery); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}

	order := column
	if params.SortDesc {
		order += " DESC"
	}

	if params.PageSize > 0 {
		page := params.Page
		if page < 1 {
			page = 1
		}

		query = query.Limit(params.PageSize).Offset((page - 1) * params.PageSize)
	}

	var assets []models.MediaAsset
	if err := query.Order(order).Find(&assets).Error; err != nil {
		return nil, 0, err
	}

	return assets, total, nil
}

// Create registers a new asset. The reference is generated here so callers
// never pick their own.
func Create(db *gorm.DB, a *models.MediaAsset) error {
	if db == nil {
		return ErrDBNil
	}

	if strings.TrimSpace(a.Title) == "" {
		return ErrTitleEmpty
	}

	if !a.Classification.IsValid() {
		return ErrInvalidClassification
	}

	a.Reference = uniuri.NewLen(uniuri.UUIDLen)

	return db.Create(a).Error
}

// UpdateClassification changes an asset's sensitivity label.
func UpdateClassification(db *gorm.DB, id uint64, level models.Classification) error {
	if db == nil {
		return ErrDBNil
	}

	if !level.IsValid() {
		return ErrInvalidClassification
	}

	result := db.Model(&models.MediaAsset{}).
		Where("id = ?", id).
		Update("classification", level)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAssetNotFound
	}

	return nil
}

// StoreAnalysis saves AI-derived metadata on an asset.
func StoreAnalysis(db *gorm.DB, id uint64, summary, sentiment string, faces, vehicles, brands int) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.MediaAsset{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transcript_summary": summary,
			"sentiment_label":    sentiment,
			"detected_faces":     faces,
			"detected_vehicles":  vehicles,
			"detected_brands":    brands,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAssetNotFound
	}

	return nil
}

// CountByClassification returns the number of assets per classification
// level, for the analytics page.
func CountByClassification(db *gorm.DB) (map[models.Classification]int64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	type row struct {
		Classification models.Classification
		Count          int64
	}

	var rows []row

	err := db.Model(&models.MediaAsset{}).
		Select("classification, COUNT(*) as count").
		Group("classification").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Classification]int64, len(rows))
	for _, r := range rows {
		counts[r.Classification] = r.Count
	}

	return counts, nil
}
