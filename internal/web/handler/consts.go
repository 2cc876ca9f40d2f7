package handler

const (
	// BaseLayout is the default path for admin layout templates.
	BaseLayout = "layouts/base"

	// PublicLayout wraps the public site.
	PublicLayout = "layouts/public"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the path of a route group's own root.
	RouterRootPath = ""

	// AdminPath prefixes all admin pages.
	AdminPath = RootPath + "admin"

	// APIAuthPath prefixes the public auth JSON endpoints.
	APIAuthPath = RootPath + "api/auth"

	// APIAdminPath prefixes the JSON endpoints guarded by the access gate.
	APIAdminPath = RootPath + "api/admin"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// InternalErrorMessage is returned by the auth endpoints for unexpected failures.
	InternalErrorMessage = "Internal server error"
)
