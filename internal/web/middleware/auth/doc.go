// Package auth provides the access gate of the admin area.
//
// The gate reads the session cookie, verifies the token and its session record,
// and stores the resulting identity in fiber.Locals for handlers and templates.
//
// The gate performs the following tasks:
//   - Redirects anonymous requests for /admin pages to the login page
//   - Answers anonymous requests to /api/admin with 401 JSON
//   - Lets the login, forgot password, reset password and logout pages through
//   - Sends signed in admins from the login page and /admin to the dashboard
//   - Clears cookies whose token no longer verifies
//
// Usage:
//
//	app.Use(authmiddleware.New(authmiddleware.Config{CookieName: name, Verifier: authService}))
package auth
