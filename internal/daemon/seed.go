package daemon

import (
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed initial data if user table is empty

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		// Create default super admin user
		db.Create(
			&models.User{
				Username: "admin",
				Password: models.HashPassword("changeme"),
				Active:   true,
				Role:     auth.RoleSuperAdmin.String(),
			},
		)
	}
}
