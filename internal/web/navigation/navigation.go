// Package navigation provides the admin menu and breadcrumbs of a page.
package navigation

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one entry of the admin menu.
type MenuItem struct {
	Section string
	Title   string
	URL     string
	Active  bool
}

// Menu lists the admin area entries in display order.
var Menu = []MenuItem{ //nolint:gochecknoglobals
	{Section: "content", Title: "Content", URL: "/admin/dashboard"},
	{Section: "admin", Title: "Administrators", URL: "/admin/admins"},
	{Section: "site", Title: "View site", URL: "/"},
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

// Items returns a copy of Menu with the entry of the active section marked.
func (c *Context) Items() []MenuItem {
	out := make([]MenuItem, len(Menu))

	for i, item := range Menu {
		item.Active = c.IsSectionActive(item.Section)
		out[i] = item
	}

	return out
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
