package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	assert.Equal(t, 0, Rank(RoleViewer))
	assert.Equal(t, 1, Rank(RoleContributor))
	assert.Equal(t, 2, Rank(RoleAdmin))
	assert.Equal(t, 3, Rank(RoleSuperAdmin))

	// unknown roles rank below every defined role
	assert.Equal(t, -1, Rank(Role("")))
	assert.Equal(t, -1, Rank(Role("root")))
}

func TestAtLeast_TotalOrder(t *testing.T) {
	for i, actual := range Roles {
		for j, required := range Roles {
			got := AtLeast(actual, required)
			assert.Equalf(t, i >= j, got, "AtLeast(%s, %s)", actual, required)
		}
	}

	// every role is at least itself
	for _, r := range Roles {
		assert.True(t, AtLeast(r, r))
	}

	// unknown roles never satisfy any requirement, but every defined role
	// satisfies an unknown requirement (it ranks below viewer)
	assert.False(t, AtLeast(Role("nope"), RoleViewer))
	assert.True(t, AtLeast(RoleViewer, Role("nope")))
}

func TestMaxRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, MaxRole(RoleAdmin, RoleViewer))
	assert.Equal(t, RoleAdmin, MaxRole(RoleViewer, RoleAdmin))
	assert.Equal(t, RoleSuperAdmin, MaxRole(RoleSuperAdmin, RoleSuperAdmin))
	assert.Equal(t, RoleContributor, MaxRole(Role("bogus"), RoleContributor))
}

func TestIsValid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.IsValid())
	}

	assert.False(t, Role("").IsValid())
	assert.False(t, Role("Viewer").IsValid())
}

func TestPermissionsOf(t *testing.T) {
	tests := []struct {
		role Role
		want PermissionSet
	}{
		{RoleViewer, PermissionSet{CanViewMedia: true}},
		{RoleContributor, PermissionSet{
			CanViewMedia:            true,
			CanUpload:               true,
			CanViewAdvancedFeatures: true,
		}},
		{RoleAdmin, PermissionSet{
			CanViewMedia:            true,
			CanUpload:               true,
			CanViewAdvancedFeatures: true,
			CanViewAnalytics:        true,
		}},
		{RoleSuperAdmin, PermissionSet{
			CanViewMedia:            true,
			CanUpload:               true,
			CanViewAdvancedFeatures: true,
			CanViewAnalytics:        true,
			CanViewAdministration:   true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, PermissionsOf(tt.role))
		})
	}

	// unknown role gets nothing
	assert.Equal(t, PermissionSet{}, PermissionsOf(Role("bogus")))
}

func TestRoleHasPermission(t *testing.T) {
	assert.True(t, RoleHasPermission(RoleViewer, PermLibraryView))
	assert.True(t, RoleHasPermission(RoleViewer, PermAssetRead))
	assert.False(t, RoleHasPermission(RoleViewer, PermAssetCreate))
	assert.False(t, RoleHasPermission(RoleViewer, PermAnalyticsView))

	assert.True(t, RoleHasPermission(RoleContributor, PermAssetCreate))
	assert.True(t, RoleHasPermission(RoleContributor, PermAssetAnalyze))
	assert.False(t, RoleHasPermission(RoleContributor, PermRequestReview))

	assert.True(t, RoleHasPermission(RoleAdmin, PermAnalyticsView))
	assert.True(t, RoleHasPermission(RoleAdmin, PermRequestReview))
	assert.False(t, RoleHasPermission(RoleAdmin, PermAdminUsers))
	assert.False(t, RoleHasPermission(RoleAdmin, PermAdminGateway))

	assert.True(t, RoleHasPermission(RoleSuperAdmin, PermAdminUsers))
	assert.True(t, RoleHasPermission(RoleSuperAdmin, PermAdminSettings))
	assert.True(t, RoleHasPermission(RoleSuperAdmin, PermAdminGateway))
}

func TestRoleHasPermission_Monotonic(t *testing.T) {
	// anything a role grants is also granted at every higher rank
	perms := []string{
		PermLibraryView, PermAssetCreate, PermAssetRead, PermAssetUpdate,
		PermAssetAnalyze, PermAnalyticsView, PermRequestReview,
		PermAdminSettings, PermAdminGateway, PermAdminUsers,
	}

	for _, perm := range perms {
		granted := false
		for _, r := range Roles {
			has := RoleHasPermission(r, perm)
			if granted {
				assert.Truef(t, has, "permission %s lost at role %s", perm, r)
			}
			granted = granted || has
		}
		assert.Truef(t, granted, "permission %s granted to no role", perm)
	}
}

func TestRoleHasPermission_UnknownPermission(t *testing.T) {
	for _, r := range Roles {
		assert.False(t, RoleHasPermission(r, "no.such.permission"))
	}
}

func TestPermissionsForRole(t *testing.T) {
	viewer := PermissionsForRole(RoleViewer)
	assert.ElementsMatch(t, []string{PermLibraryView, PermAssetRead}, viewer)

	all := PermissionsForRole(RoleSuperAdmin)
	assert.Len(t, all, 10)
}
