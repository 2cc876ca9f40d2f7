package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// LocalsIdentity is the fiber locals key holding the verified Identity.
const LocalsIdentity = "identity"

// IdentityFrom returns the identity stored by the access gate.
func IdentityFrom(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(LocalsIdentity).(Identity)

	return id, ok && id.UserID > 0
}

// RequireRole creates Fiber middleware that requires a signed in identity with role.
// It runs after the access gate, which already rejected anonymous admin requests.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		if id.Role != role {
			log.Warn().Uint64("user_id", id.UserID).Str("role", id.Role).Str("required", role).
				Msg("user lacks required role")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}

		return c.Next()
	}
}
