package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/auth"
)

// Paths the gate knows about.
const (
	AdminPrefix    = "/admin"
	APIAdminPrefix = "/api/admin"
	LoginPath      = "/admin/login"
	DashboardPath  = "/admin/dashboard"
	ForgotPath     = "/admin/forgot-password"
	ResetPath      = "/admin/reset-password"
	LogoutPath     = "/admin/logout"
)

const verifyTimeout = 5 * time.Second

// Verifier checks a session token.
type Verifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

// Config of the access gate.
type Config struct {
	// CookieName holds the session token.
	CookieName string
	// Verifier resolves the cookie into an identity.
	Verifier Verifier
}

// New returns the access gate. Any valid session is stored in fiber locals under auth.LocalsIdentity,
// on every route, so public pages and templates can tell a signed in admin apart.
func New(cfg Config) fiber.Handler {
	if cfg.Verifier == nil {
		log.Fatal().Msg("access gate needs a verifier")
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "admin_session"
	}

	return func(c *fiber.Ctx) error {
		p := strings.ToLower(c.Path())

		if strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/") {
			return c.Next()
		}

		_, signedIn := identify(c, cfg)

		switch {
		case IsAPIAdmin(p):
			if !signedIn {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": auth.ErrInvalidToken.Error()})
			}
		case IsPublicAdmin(p):
			if signedIn && isPath(p, LoginPath) {
				return c.Redirect(DashboardPath)
			}
		case IsAdmin(p):
			if !signedIn {
				return c.Redirect(LoginPath)
			}

			if isPath(p, AdminPrefix) {
				return c.Redirect(DashboardPath)
			}
		}

		return c.Next()
	}
}

// identify verifies the session cookie and stores the identity in locals.
// Invalid cookies are cleared.
func identify(c *fiber.Ctx, cfg Config) (auth.Identity, bool) {
	token := c.Cookies(cfg.CookieName)
	if token == "" {
		return auth.Identity{}, false
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), verifyTimeout)
	defer cancel()

	id, err := cfg.Verifier.Verify(ctx, token)
	if err != nil {
		if apperror.IsKind(err, apperror.KindUpstream) {
			log.Error().Err(err).Msg("session verification failed")
		}

		c.ClearCookie(cfg.CookieName)

		return auth.Identity{}, false
	}

	c.Locals(auth.LocalsIdentity, id)

	return id, true
}

// IsAdmin reports whether path lies in the admin area.
func IsAdmin(path string) bool {
	return isPath(path, AdminPrefix) || strings.HasPrefix(path, AdminPrefix+"/")
}

// IsAPIAdmin reports whether path is an admin JSON endpoint.
func IsAPIAdmin(path string) bool {
	return isPath(path, APIAdminPrefix) || strings.HasPrefix(path, APIAdminPrefix+"/")
}

// IsPublicAdmin reports whether path is an admin page reachable without a session.
func IsPublicAdmin(path string) bool {
	return isPath(path, LoginPath) || isPath(path, ForgotPath) || isPath(path, ResetPath) || isPath(path, LogoutPath)
}

func isPath(path, want string) bool {
	return strings.TrimRight(path, "/") == want
}
