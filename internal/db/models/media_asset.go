package models

import "time"

// Classification represents the sensitivity label on a media asset.
// Levels are ordered public < internal < confidential < code_red; the
// code_red level triggers the content gate for roles below admin.
type Classification string

const (
	// ClassificationPublic marks an asset viewable by anyone with library access.
	ClassificationPublic Classification = "public"
	// ClassificationInternal marks an asset for internal use.
	ClassificationInternal Classification = "internal"
	// ClassificationConfidential marks an asset with confidential content.
	ClassificationConfidential Classification = "confidential"
	// ClassificationCodeRed marks an asset whose detail view is restricted
	// to admin and super_admin; other viewers must request access.
	ClassificationCodeRed Classification = "code_red"
)

// Classifications lists all defined classification levels in ascending
// sensitivity order.
var Classifications = []Classification{
	ClassificationPublic,
	ClassificationInternal,
	ClassificationConfidential,
	ClassificationCodeRed,
}

// IsValid reports whether c is one of the defined classification levels.
func (c Classification) IsValid() bool {
	for _, valid := range Classifications {
		if c == valid {
			return true
		}
	}

	return false
}

// MediaType represents the kind of media stored for an asset.
type MediaType string

const (
	// MediaTypeVideo marks a video asset.
	MediaTypeVideo MediaType = "video"
	// MediaTypePhoto marks a photo asset.
	MediaTypePhoto MediaType = "photo"
)

// MediaAsset represents a single entry in the media library, enriched with
// AI-derived metadata produced by the analysis gateway.
type MediaAsset struct {
	// ID is the unique identifier for the asset.
	ID uint64 `gorm:"primaryKey"`
	// Reference is a short random identifier safe to expose in URLs and logs.
	Reference string `gorm:"unique;size:32;not null"`
	// Title is the display title of the asset.
	Title string `gorm:"size:255;not null"`
	// Description is a free-form description of the asset.
	Description string `gorm:"size:2000"`
	// MediaType is the kind of media (video or photo).
	MediaType MediaType `gorm:"type:varchar(10);not null"`
	// StorageKey locates the media bytes in the external object store.
	StorageKey string `gorm:"size:512;not null"`
	// DurationSeconds is the playback length for video assets (0 for photos).
	DurationSeconds int
	// Classification is the sensitivity label; exactly one level per asset.
	Classification Classification `gorm:"type:varchar(20);not null;default:'internal'"`
	// TranscriptSummary is the AI-generated summary of the asset's transcript.
	TranscriptSummary string `gorm:"size:4000"`
	// SentimentLabel is the AI-derived overall sentiment (e.g., "positive").
	SentimentLabel string `gorm:"size:50"`
	// DetectedFaces is the number of distinct faces detected by analysis.
	DetectedFaces int
	// DetectedVehicles is the number of vehicles detected by analysis.
	DetectedVehicles int
	// DetectedBrands is the number of brand logos detected by analysis.
	DetectedBrands int
	// UploadedBy is the ID of the user who registered the asset.
	UploadedBy uint64 `gorm:"column:uploaded_by;not null"`
	// CreatedAt is the timestamp when the asset was registered (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the asset was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the MediaAsset model.
// This overrides GORM's default pluralized table naming.
func (MediaAsset) TableName() string {
	return "media_assets"
}
