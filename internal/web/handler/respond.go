package handler

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/config"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

// Parse decodes the request body into v and validates it. Any failure
// becomes a validation error carrying msg.
func Parse(c *fiber.Ctx, v any, msg string) error {
	if err := c.BodyParser(v); err != nil {
		log.Debug().Err(err).Str("path", c.Path()).Msg("body parser failed")

		return apperror.Validation(msg)
	}

	if err := validate.Struct(v); err != nil {
		log.Debug().Err(err).Str("path", c.Path()).Msg("request validation failed")

		return apperror.Validation(msg)
	}

	return nil
}

// JSONError writes err as {"error": message} with the status of its kind.
func JSONError(c *fiber.Ctx, err error) error {
	status := apperror.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(status).JSON(fiber.Map{"error": apperror.Message(err)})
}

// JSONErrorMasked is JSONError with internal failures reported as internalMsg.
func JSONErrorMasked(c *fiber.Ctx, err error, internalMsg string) error {
	if apperror.HTTPStatus(err) < fiber.StatusInternalServerError {
		return JSONError(c, err)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internalMsg})
}

// WantsJSON reports whether the client asked for a JSON answer.
func WantsJSON(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

// SetSessionCookie stores the session token. Dev mode drops the Secure flag.
func SetSessionCookie(c *fiber.Ctx, cfg *config.Config, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Webserver.Session.CookieName,
		Value:    token,
		Path:     RootPath,
		MaxAge:   int(ttl.Seconds()),
		Secure:   !cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session token.
func ClearSessionCookie(c *fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Webserver.Session.CookieName,
		Value:    "",
		Path:     RootPath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   !cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
