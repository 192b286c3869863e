package auth

// Role represents one of the four ordered principal categories that control
// feature visibility throughout the console. Roles form a strict total order:
// viewer < contributor < admin < super_admin. A higher role always carries
// every capability of the roles below it.
type Role string

const (
	// RoleViewer can browse the media library and view unrestricted assets.
	RoleViewer Role = "viewer"
	// RoleContributor can additionally register assets and trigger AI analysis.
	RoleContributor Role = "contributor"
	// RoleAdmin can additionally view analytics and review access requests.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin can additionally manage users and application settings.
	RoleSuperAdmin Role = "super_admin"
)

// roleRanks maps each role to its position in the total order.
// Every comparison in the application must go through Rank/AtLeast so the
// order cannot drift between components.
var roleRanks = map[Role]int{
	RoleViewer:      0,
	RoleContributor: 1,
	RoleAdmin:       2,
	RoleSuperAdmin:  3,
}

// Roles lists all defined roles in ascending rank order.
var Roles = []Role{RoleViewer, RoleContributor, RoleAdmin, RoleSuperAdmin}

// IsValid reports whether r is one of the four defined roles.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// String returns the role as its persisted string form.
func (r Role) String() string {
	return string(r)
}

// Rank returns the position of the role in the total order, 0 for viewer
// through 3 for super_admin. Unknown roles rank below viewer.
func Rank(r Role) int {
	rank, ok := roleRanks[r]
	if !ok {
		return -1
	}

	return rank
}

// AtLeast reports whether actual carries at least the privileges of required.
// This is the single canonical comparison for gating decisions; no other
// component may re-implement the rank order.
func AtLeast(actual, required Role) bool {
	return Rank(actual) >= Rank(required)
}

// MaxRole returns the higher-ranked of the two roles.
func MaxRole(a, b Role) Role {
	if Rank(a) >= Rank(b) {
		return a
	}

	return b
}

// PermissionSet holds the derived capability flags for a role.
// It is computed on demand via PermissionsOf and never mutated.
type PermissionSet struct {
	CanViewMedia            bool
	CanUpload               bool
	CanViewAdvancedFeatures bool
	CanViewAnalytics        bool
	CanViewAdministration   bool
}

// PermissionsOf derives the capability flags for a role. The derivation is
// pure and monotonic: every flag granted at a rank is also granted at every
// higher rank.
func PermissionsOf(r Role) PermissionSet {
	return PermissionSet{
		CanViewMedia:            AtLeast(r, RoleViewer),
		CanUpload:               AtLeast(r, RoleContributor),
		CanViewAdvancedFeatures: AtLeast(r, RoleContributor),
		CanViewAnalytics:        AtLeast(r, RoleAdmin),
		CanViewAdministration:   AtLeast(r, RoleSuperAdmin),
	}
}
