package accessrequest

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.AccessRequest{}))

	return db
}

func TestCreate(t *testing.T) {
	db := newTestDB(t)

	request, err := Create(db, 1, 42, "  compliance audit  ")
	require.NoError(t, err)
	assert.NotZero(t, request.ID)
	assert.NotEmpty(t, request.Reference)
	assert.Equal(t, uint64(1), request.AssetID)
	assert.Equal(t, uint64(42), request.RequesterID)
	assert.Equal(t, "compliance audit", request.Purpose)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Nil(t, request.ReviewerID)
	assert.Nil(t, request.ReviewedAt)
}

func TestCreate_EmptyPurpose(t *testing.T) {
	db := newTestDB(t)

	for _, purpose := range []string{"", "   ", "\n\t"} {
		_, err := Create(db, 1, 42, purpose)
		assert.ErrorIs(t, err, ErrPurposeEmpty)
	}

	var count int64
	require.NoError(t, db.Model(&models.AccessRequest{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreate_DuplicateWhileOpen(t *testing.T) {
	db := newTestDB(t)

	first, err := Create(db, 1, 42, "first")
	require.NoError(t, err)

	// pending blocks a second request
	_, err = Create(db, 1, 42, "second")
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// approved blocks too
	_, err = Review(db, first.ID, 7, true)
	require.NoError(t, err)

	_, err = Create(db, 1, 42, "third")
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// other pairs are unaffected
	_, err = Create(db, 2, 42, "other asset")
	assert.NoError(t, err)

	_, err = Create(db, 1, 43, "other requester")
	assert.NoError(t, err)
}

func TestCreate_RejectedDoesNotBlock(t *testing.T) {
	db := newTestDB(t)

	first, err := Create(db, 1, 42, "first")
	require.NoError(t, err)

	_, err = Review(db, first.ID, 7, false)
	require.NoError(t, err)

	second, err := Create(db, 1, 42, "retry after rejection")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestOpen(t *testing.T) {
	db := newTestDB(t)

	_, err := Open(db, 1, 42)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	created, err := Create(db, 1, 42, "pending one")
	require.NoError(t, err)

	open, err := Open(db, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, created.ID, open.ID)
	assert.Equal(t, models.RequestStatusPending, open.Status)

	// rejected requests are not open
	_, err = Review(db, created.ID, 7, false)
	require.NoError(t, err)

	_, err = Open(db, 1, 42)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestListPending_OldestFirst(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for i, assetID := range []uint64{3, 1, 2} {
		request, err := Create(db, assetID, 42, "purpose")
		require.NoError(t, err)
		require.NoError(t, db.Model(request).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	pending, err := ListPending(db)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, uint64(3), pending[0].AssetID)
	assert.Equal(t, uint64(2), pending[2].AssetID)

	// reviewed requests drop off the queue
	_, err = Review(db, pending[0].ID, 7, true)
	require.NoError(t, err)

	pending, err = ListPending(db)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestReview(t *testing.T) {
	db := newTestDB(t)

	request, err := Create(db, 1, 42, "please")
	require.NoError(t, err)

	approved, err := Review(db, request.ID, 7, true)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewerID)
	assert.Equal(t, uint64(7), *approved.ReviewerID)
	assert.NotNil(t, approved.ReviewedAt)

	// terminal requests cannot be reviewed again
	_, err = Review(db, request.ID, 8, false)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	_, err = Review(db, 9999, 7, true)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestNilDatabase(t *testing.T) {
	_, err := Create(nil, 1, 1, "x")
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = Get(nil, 1)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = Open(nil, 1, 1)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = ListPending(nil)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = Review(nil, 1, 1, true)
	assert.ErrorIs(t, err, ErrDBNil)
}
