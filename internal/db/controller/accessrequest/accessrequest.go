// Package accessrequest provides persistence for restricted-asset access
// requests and their review workflow.
package accessrequest

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/uniuri"
)

var (
	// ErrRequestNotFound is returned when an access request is not found.
	ErrRequestNotFound = errors.New("access request not found")
	// ErrPurposeEmpty is returned when the justification is empty or whitespace-only.
	ErrPurposeEmpty = errors.New("justification cannot be empty")
	// ErrDuplicateRequest is returned when an open request already exists for
	// the same asset and requester. At most one open request per pair.
	ErrDuplicateRequest = errors.New("an open access request already exists for this asset")
	// ErrAlreadyReviewed is returned when a reviewer targets a request that
	// has already reached a terminal status.
	ErrAlreadyReviewed = errors.New("access request has already been reviewed")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

const whereAssetAndRequester = "asset_id = ? AND requester_id = ?"

// Create submits a new pending access request. It enforces the uniqueness
// invariant: a second request is refused while a pending or approved one
// exists for the same (asset, requester) pair. A rejected request does not
// block a new submission.
func Create(db *gorm.DB, assetID, requesterID uint64, purpose string) (*models.AccessRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if strings.TrimSpace(purpose) == "" {
		return nil, ErrPurposeEmpty
	}

	var open int64

	err := db.Model(&models.AccessRequest{}).
		Where(whereAssetAndRequester, assetID, requesterID).
		Where("status IN ?", []models.RequestStatus{models.RequestStatusPending, models.RequestStatusApproved}).
		Count(&open).Error
	if err != nil {
		return nil, err
	}

	if open > 0 {
		return nil, ErrDuplicateRequest
	}

	request := &models.AccessRequest{
		Reference:   uniuri.NewLen(uniuri.UUIDLen),
		AssetID:     assetID,
		RequesterID: requesterID,
		Purpose:     strings.TrimSpace(purpose),
		Status:      models.RequestStatusPending,
	}

	if err := db.Create(request).Error; err != nil {
		return nil, err
	}

	return request, nil
}

// Get retrieves an access request by its ID.
func Get(db *gorm.DB, id uint64) (*models.AccessRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var request models.AccessRequest
	result := db.First(&request, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, result.Error
	}

	return &request, nil
}

// Open returns the current open (pending or approved) request for the given
// asset and requester, or ErrRequestNotFound when none exists. The content
// gate consults this on every evaluation.
func Open(db *gorm.DB, assetID, requesterID uint64) (*models.AccessRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var request models.AccessRequest
	result := db.Where(whereAssetAndRequester, assetID, requesterID).
		Where("status IN ?", []models.RequestStatus{models.RequestStatusPending, models.RequestStatusApproved}).
		Order("created_at DESC").
		First(&request)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, result.Error
	}

	return &request, nil
}

// ListPending returns all requests awaiting review, oldest first.
func ListPending(db *gorm.DB) ([]models.AccessRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var requests []models.AccessRequest
	result := db.Where("status = ?", models.RequestStatusPending).
		Order("created_at ASC").
		Find(&requests)
	if result.Error != nil {
		return nil, result.Error
	}

	return requests, nil
}

// Review transitions a pending request to approved or rejected, stamping the
// reviewer and review time. Terminal requests cannot be reviewed again.
func Review(db *gorm.DB, id, reviewerID uint64, approve bool) (*models.AccessRequest, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	request, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if request.Status != models.RequestStatusPending {
		return nil, ErrAlreadyReviewed
	}

	status := models.RequestStatusRejected
	if approve {
		status = models.RequestStatusApproved
	}

	now := time.Now()
	request.Status = status
	request.ReviewerID = &reviewerID
	request.ReviewedAt = &now

	if err := db.Save(request).Error; err != nil {
		return nil, err
	}

	return request, nil
}
