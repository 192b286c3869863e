package setting

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

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()
	for _, setting := range settings {
		err := db.Create(&setting).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	testCases := []struct {
		name          string
		nilDB         bool
		settingName   string
		seedData      []models.Setting
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			nilDB:         true,
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "setting found",
			settingName: "site_name",
			seedData: []models.Setting{
				{Name: "site_name", Value: []byte("GoMediaVault")},
			},
			expectedValue: []byte("GoMediaVault"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var db *gorm.DB
			if !tc.nilDB {
				db = setupTestDB(t)
				seedSettings(t, db, tc.seedData)
			}

			setting, err := Get(db, tc.settingName)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, setting)
			assert.Equal(t, tc.settingName, setting.Name)
			assert.Equal(t, tc.expectedValue, setting.Value)
		})
	}
}

func TestSet(t *testing.T) {
	testCases := []struct {
		name          string
		nilDB         bool
		settingName   string
		settingValue  []byte
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil database",
			nilDB:         true,
			settingName:   "test",
			settingValue:  []byte("value"),
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			settingName:   "",
			settingValue:  []byte("value"),
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:         "creates new setting",
			settingName:  "new_setting",
			settingValue: []byte("new_value"),
		},
		{
			name:         "updates existing setting",
			settingName:  "site_name",
			settingValue: []byte("Another Name"),
			seedData: []models.Setting{
				{Name: "site_name", Value: []byte("GoMediaVault")},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var db *gorm.DB
			if !tc.nilDB {
				db = setupTestDB(t)
				seedSettings(t, db, tc.seedData)
			}

			setting, err := Set(db, tc.settingName, tc.settingValue)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, setting)
			assert.Equal(t, tc.settingName, setting.Name)
			assert.Equal(t, tc.settingValue, setting.Value)

			// the stored row reflects the upsert
			stored, err := Get(db, tc.settingName)
			require.NoError(t, err)
			assert.Equal(t, tc.settingValue, stored.Value)
		})
	}
}

func TestSet_UpsertKeepsSingleRow(t *testing.T) {
	db := setupTestDB(t)

	_, err := Set(db, "gateway", []byte("v1"))
	require.NoError(t, err)

	_, err = Set(db, "gateway", []byte("v2"))
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := Get(db, "gateway")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), stored.Value)
}

func TestDelete(t *testing.T) {
	testCases := []struct {
		name          string
		nilDB         bool
		settingName   string
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil database",
			nilDB:         true,
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "deletes existing setting",
			settingName: "site_name",
			seedData: []models.Setting{
				{Name: "site_name", Value: []byte("GoMediaVault")},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var db *gorm.DB
			if !tc.nilDB {
				db = setupTestDB(t)
				seedSettings(t, db, tc.seedData)
			}

			err := Delete(db, tc.settingName)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)

			_, err = Get(db, tc.settingName)
			assert.ErrorIs(t, err, ErrSettingNotFound)
		})
	}
}

func TestIntegration(t *testing.T) {
	db := setupTestDB(t)

	// create via upsert
	setting, err := Set(db, "test_setting", []byte("initial_value"))
	require.NoError(t, err)
	assert.Equal(t, []byte("initial_value"), setting.Value)

	// read back
	retrieved, err := Get(db, "test_setting")
	require.NoError(t, err)
	assert.Equal(t, setting.Name, retrieved.Name)

	// update via upsert
	_, err = Set(db, "test_setting", []byte("updated_value"))
	require.NoError(t, err)

	retrieved, err = Get(db, "test_setting")
	require.NoError(t, err)
	assert.Equal(t, []byte("updated_value"), retrieved.Value)

	// delete
	err = Delete(db, "test_setting")
	require.NoError(t, err)

	_, err = Get(db, "test_setting")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}
