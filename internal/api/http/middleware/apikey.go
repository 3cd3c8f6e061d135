package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/store"
	"github.com/highfiveapp/highfive_backend/pkg/crypto"
)

// APIKeyAuth validates the Bearer key on webhook calls against the
// stored key hashes and stamps last-use on success.
func APIKeyAuth(keys *store.APIKeyStore, logger *slog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success":    false,
				"error":      "missing bearer token",
				"error_type": "auth_error",
			})
		}

		key, err := keys.FindActiveByHash(c.Context(), crypto.HashAPIKey(raw))
		if err != nil {
			logger.Warn("rejected webhook call with invalid api key", "ip", c.IP())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success":    false,
				"error":      "invalid api key",
				"error_type": "auth_error",
			})
		}

		if err := keys.TouchLastUsed(c.Context(), key.ID); err != nil {
			logger.Warn("updating api key last-use failed", "error", err)
		}

		return c.Next()
	}
}
