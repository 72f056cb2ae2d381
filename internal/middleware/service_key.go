package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skyframe/skyframe-api/internal/utils"
)

// HeaderServiceKey carries the privileged key on server-to-server calls.
const HeaderServiceKey = "X-Service-Key"

// ServiceKeyProtected guards routes reserved for the auth provider's
// backend, such as profile provisioning. The key is compared in constant
// time; an unconfigured key rejects every call, so the privileged surface
// stays inert instead of the process refusing to start.
func ServiceKeyProtected(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		presented := strings.TrimSpace(c.Get(HeaderServiceKey))
		if key == "" || presented == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "service key required")
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid service key")
		}
		return c.Next()
	}
}
