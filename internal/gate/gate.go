// Package gate decides, per media asset and viewer, whether the asset's
// detail view renders in full or as a restricted placeholder, and manages
// the request-access submission for restricted assets.
//
// The gate is stateless: it re-evaluates on every page load and consults the
// live status of the viewer's open access request, so a reviewer's approval
// takes effect on the viewer's next load without any push mechanism.
package gate

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/accessrequest"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
)

// State is the gate's decision for one (asset, viewer) pair.
type State string

const (
	// StateVisible renders the full asset detail view.
	StateVisible State = "visible"
	// StateRestricted renders the restricted placeholder with the
	// request-access form.
	StateRestricted State = "restricted"
	// StateRequestPending renders the restricted placeholder with the
	// pending-review indicator instead of the form.
	StateRequestPending State = "request_pending"
)

var (
	// ErrEmptyJustification is returned when a request is submitted with an
	// empty or whitespace-only justification. The gate state is unchanged.
	ErrEmptyJustification = errors.New("justification cannot be empty")
	// ErrJustificationTooLong is returned when the justification exceeds the
	// stored column size. The gate state is unchanged.
	ErrJustificationTooLong = errors.New("justification cannot exceed 2000 characters")
	// ErrDuplicateRequest is returned when the viewer already has an open
	// request for the asset.
	ErrDuplicateRequest = errors.New("an open access request already exists for this asset")
	// ErrNotRestricted is returned when a request is submitted for an asset
	// the viewer can already see.
	ErrNotRestricted = errors.New("asset is not restricted for this viewer")
)

// submission carries the validated request-access form input.
type submission struct {
	Justification string `validate:"required,min=1,max=2000"`
}

var validate = validator.New()

// Gate evaluates content visibility and accepts access-request submissions.
type Gate struct {
	db *gorm.DB
}

// New creates a content gate over the given database.
func New(db *gorm.DB) *Gate {
	return &Gate{db: db}
}

// Evaluate returns the gate state for the asset and viewer.
//
// Anything below code_red is visible unconditionally. A code_red asset is
// visible to admin and super_admin; for everyone else the viewer's open
// access request decides: approved means visible, pending means the waiting
// state, none means restricted.
func (g *Gate) Evaluate(a *models.MediaAsset, viewerID uint64, role auth.Role) (State, error) {
	if a.Classification != models.ClassificationCodeRed {
		return StateVisible, nil
	}

	if auth.AtLeast(role, auth.RoleAdmin) {
		return StateVisible, nil
	}

	open, err := accessrequest.Open(g.db, a.ID, viewerID)
	if errors.Is(err, accessrequest.ErrRequestNotFound) {
		return StateRestricted, nil
	}

	if err != nil {
		return StateRestricted, err
	}

	if open.Status == models.RequestStatusApproved {
		return StateVisible, nil
	}

	return StateRequestPending, nil
}

// Submit files an access request for a restricted asset and returns the new
// gate state. On validation failure the state stays StateRestricted and no
// record is created. On persistence failure the caller surfaces the error
// and the gate also stays StateRestricted so the viewer may retry manually;
// there is no automatic retry.
func (g *Gate) Submit(a *models.MediaAsset, viewerID uint64, role auth.Role, justification string) (State, *models.AccessRequest, error) {
	current, err := g.Evaluate(a, viewerID, role)
	if err != nil {
		return current, nil, err
	}

	if current != StateRestricted {
		return current, nil, ErrNotRestricted
	}

	if err := validate.Struct(submission{Justification: strings.TrimSpace(justification)}); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldError := range fieldErrors {
				if fieldError.Tag() == "max" {
					return StateRestricted, nil, ErrJustificationTooLong
				}
			}
		}

		return StateRestricted, nil, ErrEmptyJustification
	}

	request, err := accessrequest.Create(g.db, a.ID, viewerID, justification)
	if errors.Is(err, accessrequest.ErrPurposeEmpty) {
		return StateRestricted, nil, ErrEmptyJustification
	}

	if errors.Is(err, accessrequest.ErrDuplicateRequest) {
		return StateRequestPending, nil, ErrDuplicateRequest
	}

	if err != nil {
		return StateRestricted, nil, err
	}

	return StateRequestPending, request, nil
}
