// Package user provides read operations for user accounts. Account creation
// and updates go through the auth providers so password handling stays in
// one place.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	result := db.First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// GetByUsername retrieves a user by username.
func GetByUsername(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	result := db.Where("username = ?", username).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// List retrieves all users ordered by username.
func List(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	if err := db.Order("username").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
