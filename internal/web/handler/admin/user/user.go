// Package user provides the administrator list and registration of new administrators.
package user

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/web/handler"
	"github.com/folio-cms/folio/internal/web/navigation"
	"github.com/folio-cms/folio/internal/web/session"
)

const (
	// Path is the administrator page.
	Path = handler.AdminPath + "/admins"

	// APIPath registers a new administrator.
	APIPath = handler.APIAuthPath + "/register-admin"

	// TemplateList is the template for listing administrators.
	TemplateList = "admin/user/list"

	createFailedMessage = "Failed to create new admin user"
	requestTimeout      = 10 * time.Second
)

// Registrar creates administrators.
type Registrar interface {
	CreateAdmin(ctx context.Context, email, password string) (*models.AdminUser, error)
}

// Lister lists administrators.
type Lister interface {
	List(ctx context.Context) ([]models.AdminUser, error)
}

// Request is the registration form and JSON body.
type Request struct {
	Email    string `json:"email" form:"email" validate:"required,max=254"`
	Password string `json:"password" form:"password" validate:"required,max=1024"`
}

// Service manages administrators.
type Service struct {
	handler.Service
	cfg       *config.Config
	registrar Registrar
	users     Lister
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, registrar Registrar, users Lister) {
	if app == nil || cfg == nil || registrar == nil || users == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.registrar = registrar
	s.users = users

	requireAdmin := auth.RequireRole(models.RoleAdmin)

	app.Get(Path, requireAdmin, s.List)
	app.Post(Path, requireAdmin, s.Create)
	app.Post(APIPath, requireAdmin, s.CreateAPI)
}

// List shows all administrators.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.NewContext("Administrators", "admin", "admins").
		AddBreadcrumb("Dashboard", handler.AdminPath+"/dashboard", false).
		AddBreadcrumb("Administrators", Path, true)

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	data := fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"Flash":      session.PopFlash(c),
	}

	if id, ok := auth.IdentityFrom(c); ok {
		data["CurrentUser"] = id
	}

	users, err := s.users.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list administrators")

		data["error"] = "Failed to load administrators"

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, data, handler.BaseLayout)
	}

	data["Users"] = users

	return c.Render(TemplateList, data, handler.BaseLayout)
}

// Create handles the registration form.
func (s *Service) Create(c *fiber.Ctx) error {
	user, err := s.create(c)
	if err != nil {
		msg := apperror.Message(err)
		if apperror.HTTPStatus(err) >= fiber.StatusInternalServerError {
			log.Error().Err(err).Msg("failed to create administrator")

			msg = createFailedMessage
		}

		session.SetFlash(c, session.FlashError, msg)

		return c.Redirect(Path, fiber.StatusSeeOther)
	}

	session.SetFlash(c, session.FlashSuccess, auth.AdminCreatedMessage+" ("+user.Email+")")

	return c.Redirect(Path, fiber.StatusSeeOther)
}

// CreateAPI handles the JSON registration.
func (s *Service) CreateAPI(c *fiber.Ctx) error {
	if _, err := s.create(c); err != nil {
		return handler.JSONErrorMasked(c, err, createFailedMessage)
	}

	return c.JSON(fiber.Map{"success": true, "message": auth.AdminCreatedMessage})
}

func (s *Service) create(c *fiber.Ctx) (*models.AdminUser, error) {
	req := new(Request)
	if err := handler.Parse(c, req, auth.ErrCredentialsRequired.Message); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	user, err := s.registrar.CreateAdmin(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err //nolint:wrapcheck // apperror
	}

	if id, ok := auth.IdentityFrom(c); ok {
		log.Info().Uint64("by_user_id", id.UserID).Str("email", user.Email).Msg("administrator registered")
	}

	return user, nil
}
