package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMediaVault/GoMediaVault/internal/auth"
)

func TestVisible(t *testing.T) {
	entries := []Entry{
		{Label: "Browse", Path: "/library"},
		{Label: "Register Asset", Path: "/assets/add", MinRole: minRole(auth.RoleContributor)},
		{Label: "Users", Path: "/admin/users", MinRole: minRole(auth.RoleSuperAdmin)},
	}

	tests := []struct {
		role auth.Role
		want []string
	}{
		{auth.RoleViewer, []string{"Browse"}},
		{auth.RoleContributor, []string{"Browse", "Register Asset"}},
		{auth.RoleAdmin, []string{"Browse", "Register Asset"}},
		{auth.RoleSuperAdmin, []string{"Browse", "Register Asset", "Users"}},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			got := Visible(entries, tt.role)

			labels := make([]string, 0, len(got))
			for _, e := range got {
				labels = append(labels, e.Label)
			}

			// order of the input must be preserved
			assert.Equal(t, tt.want, labels)
		})
	}
}

func TestVisible_NilMinRoleVisibleToAll(t *testing.T) {
	entries := []Entry{{Label: "Open", Path: "/open"}}

	for _, r := range auth.Roles {
		assert.Len(t, Visible(entries, r), 1)
	}

	// even an unknown role sees entries without a minimum
	assert.Len(t, Visible(entries, auth.Role("bogus")), 1)
}

func TestVisible_DoesNotMutateInput(t *testing.T) {
	entries := []Entry{
		{Label: "A", Path: "/a"},
		{Label: "B", Path: "/b", MinRole: minRole(auth.RoleAdmin)},
	}

	_ = Visible(entries, auth.RoleViewer)

	assert.Equal(t, "A", entries[0].Label)
	assert.Equal(t, "B", entries[1].Label)
	assert.NotNil(t, entries[1].MinRole)
}

func TestVisibleSections_DropsEmptySections(t *testing.T) {
	sections := []Section{
		{
			Title:   "Library",
			Entries: []Entry{{Label: "Browse", Path: "/library"}},
		},
		{
			Title: "Administration",
			Entries: []Entry{
				{Label: "Users", Path: "/admin/users", MinRole: minRole(auth.RoleSuperAdmin)},
			},
		},
	}

	got := VisibleSections(sections, auth.RoleViewer)
	require.Len(t, got, 1)
	assert.Equal(t, "Library", got[0].Title)

	got = VisibleSections(sections, auth.RoleSuperAdmin)
	require.Len(t, got, 2)
	assert.Equal(t, "Administration", got[1].Title)
}

func TestDefaultMenu_RoleCoverage(t *testing.T) {
	menu := DefaultMenu()

	viewer := VisibleSections(menu, auth.RoleViewer)
	require.Len(t, viewer, 1)
	assert.Equal(t, "Library", viewer[0].Title)

	contributor := VisibleSections(menu, auth.RoleContributor)
	require.Len(t, contributor, 2)
	assert.Equal(t, "Upload Tools", contributor[1].Title)

	admin := VisibleSections(menu, auth.RoleAdmin)
	require.Len(t, admin, 3)
	assert.Equal(t, "Analytics Tools", admin[2].Title)

	superAdmin := VisibleSections(menu, auth.RoleSuperAdmin)
	require.Len(t, superAdmin, 4)
	assert.Equal(t, "Administration", superAdmin[3].Title)
}

func TestContext_Breadcrumbs(t *testing.T) {
	ctx := NewContext("Asset Detail", "library", "asset").
		AddBreadcrumb("Library", "/library", false).
		AddBreadcrumb("Asset Detail", "", true)

	require.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "Library", ctx.Breadcrumbs[0].Title)
	assert.False(t, ctx.Breadcrumbs[0].Active)
	assert.True(t, ctx.Breadcrumbs[1].Active)

	assert.True(t, ctx.IsActive("library", "asset"))
	assert.False(t, ctx.IsActive("library", "search"))
	assert.True(t, ctx.IsSectionActive("library"))
	assert.False(t, ctx.IsSectionActive("admin"))
}
