package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EffectiveRole resolves the effective role of a user: the highest of the
// user's direct role and every role mapped from the user's groups.
// Unknown stored role values degrade to viewer rather than failing the
// lookup, so a corrupted row can never elevate privileges.
func (s *Service) EffectiveRole(userID uint64) (Role, error) {
	var user models.User

	if err := s.db.First(&user, userID).Error; err != nil {
		return RoleViewer, fmt.Errorf("failed to load user: %w", err)
	}

	effective := RoleViewer
	if direct := Role(user.Role); direct.IsValid() {
		effective = direct
	}

	// Raise by group-mapped roles
	var mappedRoles []string

	err := s.db.Table("group_mappings").
		Select("group_mappings.role").
		Joins("JOIN user_groups ON user_groups.group_id = group_mappings.group_id").
		Where("user_groups.user_id = ?", userID).
		Pluck("group_mappings.role", &mappedRoles).Error
	if err != nil {
		return RoleViewer, fmt.Errorf("failed to load group roles: %w", err)
	}

	for _, name := range mappedRoles {
		if mapped := Role(name); mapped.IsValid() {
			effective = MaxRole(effective, mapped)
		}
	}

	return effective, nil
}

// HasPermission checks if a user has a specific named permission.
// The permission is derived from the user's effective role through the
// canonical role order; nothing is looked up in permission tables.
func (s *Service) HasPermission(userID uint64, permission string) (bool, error) {
	role, err := s.EffectiveRole(userID)
	if err != nil {
		return false, err
	}

	return RoleHasPermission(role, permission), nil
}

// HasRole checks if a user's effective role is at least the required role.
func (s *Service) HasRole(userID uint64, required Role) (bool, error) {
	role, err := s.EffectiveRole(userID)
	if err != nil {
		return false, err
	}

	return AtLeast(role, required), nil
}

// GetUserPermissions retrieves all named permissions for a user.
func (s *Service) GetUserPermissions(userID uint64) ([]string, error) {
	role, err := s.EffectiveRole(userID)
	if err != nil {
		return nil, err
	}

	return PermissionsForRole(role), nil
}

// GetUserGroups retrieves all groups a user belongs to.
func (s *Service) GetUserGroups(userID uint64) ([]models.Group, error) {
	var groups []models.Group

	err := s.db.Table("groups").
		Joins("JOIN user_groups ON user_groups.group_id = groups.id").
		Where("user_groups.user_id = ?", userID).
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}

	return groups, nil
}

// SyncUserGroups synchronizes a user's groups with external groups.
// This is called after OIDC or LDAP authentication to update group memberships.
func (s *Service) SyncUserGroups(userID uint64, externalGroups []string, source models.GroupSource) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Get or create groups for external groups
		var groupIDs []uint

		for _, externalGroup := range externalGroups {
			var group models.Group

			err := tx.Where("external_id = ? AND source = ?", externalGroup, source).
				FirstOrCreate(&group, models.Group{
					Name:       externalGroup,
					ExternalID: externalGroup,
					Source:     source,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to create/get group %s: %w", externalGroup, err)
			}

			groupIDs = append(groupIDs, group.ID)
		}

		// Remove old group memberships for this source
		if err := tx.Where("user_id = ?", userID).
			Where("group_id IN (SELECT id FROM groups WHERE source = ?)", source).
			Delete(&models.UserGroup{}).Error; err != nil {
			return fmt.Errorf("failed to remove old group memberships: %w", err)
		}

		// Add new group memberships
		for _, groupID := range groupIDs {
			if err := tx.Create(&models.UserGroup{
				UserID:  userID,
				GroupID: groupID,
			}).Error; err != nil {
				return fmt.Errorf("failed to add group membership: %w", err)
			}
		}

		return nil
	})
}

// AssignRole assigns a direct role to a user.
// Fails with ErrInvalidRole for values outside the four defined roles.
func (s *Service) AssignRole(userID uint64, role Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}

	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role.String()).Error
}
