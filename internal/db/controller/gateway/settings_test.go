package gateway

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestSettings_Save(t *testing.T) {
	db := setupTestDB(t)

	settings := &Settings{
		BaseURL: "https://gateway.example.com/v1",
		APIKey:  "secret-api-key-123",
		Model:   "gpt-4o-mini",
	}

	err := settings.Save(db)
	require.NoError(t, err)

	// Verify the setting was saved
	var savedSetting models.Setting
	err = db.Where("name = ?", SettingKeyGateway).First(&savedSetting).Error
	require.NoError(t, err)
	assert.Equal(t, SettingKeyGateway, savedSetting.Name)
	assert.NotEmpty(t, savedSetting.Value)
}

func TestSettings_Load(t *testing.T) {
	db := setupTestDB(t)

	// First save a setting
	original := &Settings{
		BaseURL: "https://gateway.example.com/v1",
		APIKey:  "secret-api-key-123",
		Model:   "gpt-4o-mini",
	}

	err := original.Save(db)
	require.NoError(t, err)

	// Now load it into a new struct
	loaded := &Settings{}
	err = loaded.Load(db)
	require.NoError(t, err)

	// Verify all fields match
	assert.Equal(t, original.BaseURL, loaded.BaseURL)
	assert.Equal(t, original.APIKey, loaded.APIKey)
	assert.Equal(t, original.Model, loaded.Model)
}

func TestSettings_Load_NotFound(t *testing.T) {
	db := setupTestDB(t)

	settings := &Settings{}
	err := settings.Load(db)
	require.Error(t, err)
}

func TestSettings_SaveAndLoadMultipleTimes(t *testing.T) {
	db := setupTestDB(t)

	// First save
	settings1 := &Settings{
		BaseURL: "https://gw1.example.com/v1",
		APIKey:  "key1-long-enough",
		Model:   "gpt-4o-mini",
	}
	err := settings1.Save(db)
	require.NoError(t, err)

	// Update and save again
	settings2 := &Settings{
		BaseURL: "https://gw2.example.com/v1",
		APIKey:  "key2-long-enough",
		Model:   "claude-sonnet",
	}
	err = settings2.Save(db)
	require.NoError(t, err)

	// Load and verify it has the latest values
	loaded := &Settings{}
	err = loaded.Load(db)
	require.NoError(t, err)

	assert.Equal(t, settings2.BaseURL, loaded.BaseURL)
	assert.Equal(t, settings2.APIKey, loaded.APIKey)
	assert.Equal(t, settings2.Model, loaded.Model)

	// Verify only one setting exists in the database
	var count int64
	err = db.Model(&models.Setting{}).Where("name = ?", SettingKeyGateway).Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSettings_NilDatabase(t *testing.T) {
	settings := &Settings{
		BaseURL: "https://gateway.example.com/v1",
		APIKey:  "secret-api-key-123",
		Model:   "gpt-4o-mini",
	}

	err := settings.Save(nil)
	require.Error(t, err)

	err = settings.Load(nil)
	require.Error(t, err)
}
