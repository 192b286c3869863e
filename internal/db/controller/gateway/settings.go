// Package gateway stores the AI gateway connection settings.
package gateway

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/db/controller/setting"
)

const (
	// SettingKeyGateway is the key used to store AI gateway settings in the database.
	SettingKeyGateway = "ai_gateway"
)

type (
	// Settings represents the AI completion gateway configuration.
	Settings struct {
		BaseURL string `form:"base_url" json:"baseUrl" validate:"required,url"`
		APIKey  string `form:"api_key"  json:"apiKey"  validate:"required,min=8"`
		Model   string `form:"model"    json:"model"   validate:"required"`
	}
)

// Load loads the gateway settings from the database.
func (g *Settings) Load(db *gorm.DB) error {
	// Retrieve the setting from the database
	s, err := setting.Get(db, SettingKeyGateway)
	if err != nil {
		return err
	}

	// Unmarshal the JSON blob into the struct
	return json.Unmarshal(s.Value, g)
}

// Save saves the gateway settings to the database.
func (g *Settings) Save(db *gorm.DB) error {
	// Marshal the struct to JSON
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}

	// Save or update the setting in the database
	_, err = setting.Set(db, SettingKeyGateway, data)

	return err
}
