// Package session holds the storage of session records and the flash message store.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog/log"
)

const (
	// FlashCookieName is the cookie of the flash session. The auth token has its own cookie.
	FlashCookieName = "folio_flash"

	flashKey = "flash"
)

// Flash is a one time status message shown after a redirect.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Flash kinds, used as css class names.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Store is the global flash session store instance.
var Store *session.Store //nolint:gochecknoglobals

// Init initializes the flash session store with the provided storage backend.
func Init(storage fiber.Storage, expiry time.Duration) {
	if storage == nil {
		panic("storage is nil")
	}

	Store = session.New(session.Config{
		Storage:        storage,
		Expiration:     expiry,
		KeyLookup:      "cookie:" + FlashCookieName,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	// values are gob encoded
	Store.RegisterType(Flash{})
}

// SetFlash stores a message for the next request of this client.
func SetFlash(c *fiber.Ctx, kind, message string) {
	sess, err := Store.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to get flash session")

		return
	}

	sess.Set(flashKey, Flash{Kind: kind, Message: message})

	if err = sess.Save(); err != nil {
		log.Error().Err(err).Msg("failed to save flash session")
	}
}

// PopFlash returns and clears the pending message, if any.
func PopFlash(c *fiber.Ctx) *Flash {
	sess, err := Store.Get(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to get flash session")

		return nil
	}

	f, ok := sess.Get(flashKey).(Flash)
	if !ok {
		return nil
	}

	sess.Delete(flashKey)

	if err = sess.Save(); err != nil {
		log.Error().Err(err).Msg("failed to save flash session")
	}

	return &f
}
