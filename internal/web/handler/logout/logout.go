// Package logout ends admin sessions.
package logout

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/web/handler"
)

const (
	// Path is the logout page.
	Path = handler.AdminPath + "/logout"

	// APIPath is the JSON logout endpoint.
	APIPath = handler.APIAuthPath + "/logout"
)

// SessionEnder deletes the session record behind a token and returns its id.
type SessionEnder interface {
	Logout(ctx context.Context, token string) (string, error)
}

// EditorDropper forgets the editing state of a session.
type EditorDropper interface {
	Drop(sessionID string)
}

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	auth    SessionEnder
	editors EditorDropper
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, sessions SessionEnder, editors EditorDropper) {
	if app == nil || cfg == nil || sessions == nil || editors == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.auth = sessions
	s.editors = editors

	// logout routes are let through by the access gate
	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)
	app.Post(APIPath, s.Logout)
}

// Logout deletes the session, clears the cookie and returns to the public page.
func (s *Service) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(s.cfg.Webserver.Session.CookieName); token != "" {
		sessionID, err := s.auth.Logout(c.UserContext(), token)
		if err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}

		if sessionID != "" {
			s.editors.Drop(sessionID)
		}
	}

	handler.ClearSessionCookie(c, s.cfg)

	return c.Redirect(handler.RootPath, fiber.StatusSeeOther)
}
