package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses that did not set
// one. Stored lookups never change, the list and live endpoints always do.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || len(c.Response().Header.Peek(fiber.HeaderCacheControl)) > 0 {
			return err
		}

		path := c.Path()
		var ttl string
		switch {
		case path == "/":
			ttl = "public, max-age=300"
		case path == "/v1/health" || path == "/v1/ready" || path == "/metrics":
			ttl = "no-cache"
		case strings.HasPrefix(path, "/v1/lookups/"):
			ttl = "public, max-age=86400, immutable"
		case path == "/v1/lookups":
			ttl = "no-cache"
		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"
		}

		if ttl != "" && c.Response().StatusCode() == fiber.StatusOK {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}
