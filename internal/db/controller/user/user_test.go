package user

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role auth.Role) *models.User {
	t.Helper()

	u := &models.User{
		Active:     true,
		Username:   username,
		Email:      username + "@example.com",
		Role:       role.String(),
		AuthSource: models.AuthSourceLocal,
	}
	require.NoError(t, db.Create(u).Error)

	return u
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, "alice", auth.RoleAdmin)

	got, err := Get(db, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, auth.RoleAdmin.String(), got.Role)

	_, err = Get(db, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = Get(nil, seeded.ID)
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestGetByUsername(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, "bob", auth.RoleViewer)

	got, err := GetByUsername(db, "bob")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	_, err = GetByUsername(db, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = GetByUsername(nil, "bob")
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestList_OrderedByUsername(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "charlie", auth.RoleViewer)
	seedUser(t, db, "alice", auth.RoleSuperAdmin)
	seedUser(t, db, "bob", auth.RoleContributor)

	users, err := List(db)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "charlie", users[2].Username)

	_, err = List(nil)
	assert.ErrorIs(t, err, ErrDBNil)
}
