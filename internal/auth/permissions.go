package auth

// Permission constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions.
const (
	// PermLibraryView allows browsing the media library and dashboards.
	PermLibraryView = "library.view"

	// PermAssetCreate allows registering new media assets.
	PermAssetCreate = "asset.create"
	// PermAssetRead allows viewing media asset details and metadata.
	PermAssetRead = "asset.read"
	// PermAssetUpdate allows editing media asset metadata and classification.
	PermAssetUpdate = "asset.update"
	// PermAssetAnalyze allows triggering AI analysis on an asset.
	PermAssetAnalyze = "asset.analyze"

	// PermAnalyticsView allows viewing library analytics.
	PermAnalyticsView = "analytics.view"

	// PermRequestReview allows reviewing (approving/rejecting) access requests.
	PermRequestReview = "request.review"

	// PermAdminSettings allows managing application-wide settings.
	PermAdminSettings = "admin.settings"
	// PermAdminGateway allows managing AI gateway connection settings.
	PermAdminGateway = "admin.gateway"
	// PermAdminUsers allows managing user accounts.
	PermAdminUsers = "admin.users"
)

// rolePermissions maps each named permission to the minimum role that grants
// it. Derivation stays in one place so the named permissions and the
// PermissionSet flags cannot disagree.
var rolePermissions = map[string]Role{
	PermLibraryView:   RoleViewer,
	PermAssetRead:     RoleViewer,
	PermAssetCreate:   RoleContributor,
	PermAssetUpdate:   RoleContributor,
	PermAssetAnalyze:  RoleContributor,
	PermAnalyticsView: RoleAdmin,
	PermRequestReview: RoleAdmin,
	PermAdminSettings: RoleSuperAdmin,
	PermAdminGateway:  RoleSuperAdmin,
	PermAdminUsers:    RoleSuperAdmin,
}

// RoleHasPermission reports whether a role grants the named permission.
// Unknown permission names are never granted.
func RoleHasPermission(r Role, permission string) bool {
	required, ok := rolePermissions[permission]
	if !ok {
		return false
	}

	return AtLeast(r, required)
}

// PermissionsForRole returns all named permissions granted to a role.
func PermissionsForRole(r Role) []string {
	result := make([]string, 0, len(rolePermissions))

	for name, required := range rolePermissions {
		if AtLeast(r, required) {
			result = append(result, name)
		}
	}

	return result
}
