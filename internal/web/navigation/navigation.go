// Package navigation provides the role-gated menu model and utilities for
// managing navigation state and breadcrumbs.
package navigation

import (
	"github.com/GoMediaVault/GoMediaVault/internal/auth"
)

// Entry represents a single menu entry. Entries are static configuration:
// created at build time, never mutated, never persisted.
type Entry struct {
	// Icon is the icon reference rendered next to the label.
	Icon string
	// Label is the visible menu text.
	Label string
	// Path is the route the entry links to.
	Path string
	// MinRole is the minimum role required to see the entry.
	// Nil means the entry is visible to every role.
	MinRole *auth.Role
}

// Section groups related entries under a collapsible header.
type Section struct {
	Title   string
	Entries []Entry
}

// Visible filters entries to those the role may see, preserving input order.
// Input order is significant: it defines on-screen grouping. Entries are
// never mutated; this is a pure filter.
func Visible(entries []Entry, role auth.Role) []Entry {
	result := make([]Entry, 0, len(entries))

	for _, entry := range entries {
		if entry.MinRole == nil || auth.AtLeast(role, *entry.MinRole) {
			result = append(result, entry)
		}
	}

	return result
}

// VisibleSections filters each section's entries independently and drops
// sections left with no visible entries. A user must never see a section
// header with nothing underneath it.
func VisibleSections(sections []Section, role auth.Role) []Section {
	result := make([]Section, 0, len(sections))

	for _, section := range sections {
		visible := Visible(section.Entries, role)
		if len(visible) == 0 {
			continue
		}

		result = append(result, Section{
			Title:   section.Title,
			Entries: visible,
		})
	}

	return result
}

// minRole is a convenience for building static menu configuration.
func minRole(r auth.Role) *auth.Role {
	return &r
}

// DefaultMenu returns the console's static menu configuration.
func DefaultMenu() []Section {
	return []Section{
		{
			Title: "Library",
			Entries: []Entry{
				{Icon: "grid", Label: "Browse", Path: "/library"},
				{Icon: "search", Label: "Search", Path: "/library/search"},
			},
		},
		{
			Title: "Upload Tools",
			Entries: []Entry{
				{Icon: "upload", Label: "Register Asset", Path: "/assets/add", MinRole: minRole(auth.RoleContributor)},
				{Icon: "cpu", Label: "AI Analysis", Path: "/assets/analyze", MinRole: minRole(auth.RoleContributor)},
			},
		},
		{
			Title: "Analytics Tools",
			Entries: []Entry{
				{Icon: "bar-chart", Label: "Library Analytics", Path: "/analytics", MinRole: minRole(auth.RoleAdmin)},
				{Icon: "inbox", Label: "Access Requests", Path: "/admin/requests", MinRole: minRole(auth.RoleAdmin)},
			},
		},
		{
			Title: "Administration",
			Entries: []Entry{
				{Icon: "users", Label: "Users", Path: "/admin/users", MinRole: minRole(auth.RoleSuperAdmin)},
				{Icon: "settings", Label: "Gateway Settings", Path: "/admin/settings/gateway", MinRole: minRole(auth.RoleSuperAdmin)},
				{Icon: "eye", Label: "Role Preview", Path: "/settings/role-preview", MinRole: minRole(auth.RoleSuperAdmin)},
			},
		},
	}
}

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
