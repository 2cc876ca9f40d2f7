// Package password provides the forgot password and reset password pages and endpoints.
package password

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/web/handler"
)

const (
	// ForgotPath is the forgot password page.
	ForgotPath = handler.AdminPath + "/forgot-password"
	// ResetPath is the reset password page reset links point to.
	ResetPath = auth.ResetPath

	// APIForgotPath is the JSON forgot password endpoint.
	APIForgotPath = handler.APIAuthPath + "/forgot-password"
	// APIResetPath is the JSON reset password endpoint.
	APIResetPath = handler.APIAuthPath + "/reset-password"

	// TemplateForgot is the forgot password template.
	TemplateForgot = "password/forgot"
	// TemplateReset is the reset password template.
	TemplateReset = "password/reset"

	resetFailedMessage = "Failed to update password"
	requestTimeout     = 15 * time.Second
)

// Resetter runs the password reset flow.
type Resetter interface {
	ForgotPassword(ctx context.Context, email, origin string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ForgotRequest is the forgot password form and JSON body.
type ForgotRequest struct {
	Email string `json:"email" form:"email" validate:"required,max=254"`
}

// ResetRequest is the reset password form and JSON body.
type ResetRequest struct {
	Token       string `json:"token" form:"token" validate:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" validate:"required,max=1024"`
}

// Service is the password handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	reset Resetter
}

// Handler is the password handler.
var Handler = Service{}

// Init registers the pages and endpoints.
func (s *Service) Init(app *fiber.App, cfg *config.Config, resetter Resetter) {
	if app == nil || cfg == nil || resetter == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.reset = resetter

	app.Get(ForgotPath, s.GetForgot)
	app.Post(ForgotPath, s.PostForgot)
	app.Get(ResetPath, s.GetReset)
	app.Post(ResetPath, s.PostReset)

	app.Post(APIForgotPath, s.PostForgotAPI)
	app.Post(APIResetPath, s.PostResetAPI)
}

// GetForgot renders the forgot password form.
func (s *Service) GetForgot(c *fiber.Ctx) error {
	return c.Render(TemplateForgot, fiber.Map{"Title": s.cfg.Title}, handler.BaseLayout)
}

// PostForgot handles the forgot password form.
func (s *Service) PostForgot(c *fiber.Ctx) error {
	msg, err := s.forgot(c)

	data := fiber.Map{"Title": s.cfg.Title}
	if err != nil {
		data["error"] = s.pageMessage(err, handler.InternalErrorMessage)
	} else {
		data["Message"] = msg
	}

	return c.Render(TemplateForgot, data, handler.BaseLayout)
}

// PostForgotAPI handles the JSON forgot password request.
func (s *Service) PostForgotAPI(c *fiber.Ctx) error {
	msg, err := s.forgot(c)
	if err != nil {
		return handler.JSONErrorMasked(c, err, handler.InternalErrorMessage)
	}

	return c.JSON(fiber.Map{"success": true, "message": msg})
}

// GetReset renders the new password form for the token in the query.
func (s *Service) GetReset(c *fiber.Ctx) error {
	data := fiber.Map{"Title": s.cfg.Title, "Token": c.Query("token")}
	if c.Query("token") == "" {
		data["error"] = auth.ErrInvalidResetToken.Message
	}

	return c.Render(TemplateReset, data, handler.BaseLayout)
}

// PostReset handles the reset password form.
func (s *Service) PostReset(c *fiber.Ctx) error {
	req := new(ResetRequest)
	err := s.doReset(c, req)

	data := fiber.Map{"Title": s.cfg.Title, "Token": req.Token}
	if err != nil {
		data["error"] = s.pageMessage(err, resetFailedMessage)
	} else {
		data["Message"] = auth.PasswordUpdatedMessage
		data["Done"] = true
	}

	return c.Render(TemplateReset, data, handler.BaseLayout)
}

// PostResetAPI handles the JSON reset password request.
func (s *Service) PostResetAPI(c *fiber.Ctx) error {
	if err := s.doReset(c, new(ResetRequest)); err != nil {
		return handler.JSONErrorMasked(c, err, resetFailedMessage)
	}

	return c.JSON(fiber.Map{"success": true, "message": auth.PasswordUpdatedMessage})
}

func (s *Service) forgot(c *fiber.Ctx) (string, error) {
	req := new(ForgotRequest)
	if err := handler.Parse(c, req, auth.ErrEmailRequired.Message); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	return s.reset.ForgotPassword(ctx, req.Email, c.Get(fiber.HeaderOrigin)) //nolint:wrapcheck // apperror
}

func (s *Service) doReset(c *fiber.Ctx, req *ResetRequest) error {
	if err := handler.Parse(c, req, auth.ErrResetFieldsRequired.Message); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	return s.reset.ResetPassword(ctx, req.Token, req.NewPassword) //nolint:wrapcheck // apperror
}

// pageMessage hides internal failures behind internalMsg.
func (s *Service) pageMessage(err error, internalMsg string) string {
	if apperror.HTTPStatus(err) >= fiber.StatusInternalServerError {
		log.Error().Err(err).Msg("password request failed")

		return internalMsg
	}

	return apperror.Message(err)
}
