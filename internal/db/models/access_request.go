package models

import "time"

// RequestStatus represents the review state of an access request.
// A request starts pending and is moved by a reviewer to one of the two
// terminal states, approved or rejected.
type RequestStatus string

const (
	// RequestStatusPending indicates the request awaits review.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusApproved indicates a reviewer granted the request. Terminal.
	RequestStatusApproved RequestStatus = "approved"
	// RequestStatusRejected indicates a reviewer denied the request. Terminal.
	RequestStatusRejected RequestStatus = "rejected"
)

// AccessRequest records a viewer's request to see a restricted media asset.
// The requester never mutates the record after submission; only a reviewer
// transitions its status.
type AccessRequest struct {
	// ID is the unique identifier for the request.
	ID uint64 `gorm:"primaryKey"`
	// Reference is a short random identifier safe to expose in URLs and logs.
	Reference string `gorm:"unique;size:32;not null"`
	// AssetID is the ID of the restricted asset the request targets.
	AssetID uint64 `gorm:"column:asset_id;not null;index:idx_asset_requester"`
	// RequesterID is the ID of the user who submitted the request.
	RequesterID uint64 `gorm:"column:requester_id;not null;index:idx_asset_requester"`
	// Purpose is the requester's justification for needing access.
	Purpose string `gorm:"size:2000;not null"`
	// Status is the review state (pending, approved, or rejected).
	Status RequestStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	// ReviewerID is the ID of the user who reviewed the request (nil while pending).
	ReviewerID *uint64 `gorm:"column:reviewer_id"`
	// CreatedAt is the timestamp when the request was submitted (managed by GORM).
	CreatedAt time.Time
	// ReviewedAt is the timestamp of the review decision (nil while pending).
	ReviewedAt *time.Time
}

// TableName specifies the database table name for the AccessRequest model.
// This overrides GORM's default pluralized table naming.
func (AccessRequest) TableName() string {
	return "access_requests"
}
