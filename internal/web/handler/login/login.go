// Package login provides the admin login page and the login JSON endpoint.
package login

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/web/handler"
)

const (
	// Path is the path to the login page.
	Path = handler.AdminPath + "/login"

	// APIPath is the JSON login endpoint.
	APIPath = handler.APIAuthPath + "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login/login"

	// RedirectURL is where a successful login continues.
	RedirectURL = handler.AdminPath + "/dashboard"

	loginTimeout = 10 * time.Second
)

// Authenticator logs admins in.
type Authenticator interface {
	Login(ctx context.Context, email, password, otp string) (auth.Token, error)
	SessionTTL() time.Duration
}

// Request is the login form and JSON body.
type Request struct {
	Email    string `json:"email" form:"email" validate:"required,max=254"`
	Password string `json:"password" form:"password" validate:"required,max=1024"`
	OTP      string `json:"otp" form:"otp" validate:"max=10"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	auth Authenticator
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authenticator Authenticator) {
	if app == nil || cfg == nil || authenticator == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.auth = authenticator

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	app.Post(APIPath, s.PostAPI)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	}, handler.BaseLayout)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)

	token, err := s.login(c, req)
	if err != nil {
		if apperror.HTTPStatus(err) >= fiber.StatusInternalServerError {
			log.Error().Err(err).Msg("login failed")
			err = apperror.Upstream(handler.InternalErrorMessage, nil)
		}

		return c.Render(TemplateName, fiber.Map{
			"Title":   s.cfg.Title,
			"Email":   req.Email,
			"NeedOTP": errors.Is(err, auth.ErrOTPRequired) || errors.Is(err, auth.ErrInvalidOTP),
			"error":   apperror.Message(err),
		}, handler.BaseLayout)
	}

	handler.SetSessionCookie(c, s.cfg, token.Value, s.auth.SessionTTL())

	return c.Redirect(RedirectURL)
}

// PostAPI handles the JSON login.
func (s *Service) PostAPI(c *fiber.Ctx) error {
	token, err := s.login(c, new(Request))
	if err != nil {
		return handler.JSONErrorMasked(c, err, handler.InternalErrorMessage)
	}

	handler.SetSessionCookie(c, s.cfg, token.Value, s.auth.SessionTTL())

	return c.JSON(fiber.Map{"success": true, "redirectUrl": RedirectURL})
}

func (s *Service) login(c *fiber.Ctx, req *Request) (auth.Token, error) {
	if err := handler.Parse(c, req, auth.ErrCredentialsRequired.Message); err != nil {
		return auth.Token{}, err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), loginTimeout)
	defer cancel()

	token, err := s.auth.Login(ctx, req.Email, req.Password, req.OTP)
	if err != nil {
		return auth.Token{}, err //nolint:wrapcheck // apperror
	}

	log.Info().Uint64("user_id", token.Identity.UserID).Str("ip", c.IP()).Msg("admin logged in")

	return token, nil
}
