package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"uptime":   time.Since(startedAt).String(),
			"version":  deps.Version,
			"sessions": deps.Sessions.Len(),
		})
	}
}

// ReadyHandler checks the optional backends. A backend that is not
// configured is reported but does not fail readiness; the planner works
// without history, cache and broker.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allOK := true

		ping := func(name string, p Pinger) {
			if p == nil {
				checks[name] = "not configured"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "error: " + err.Error()
				allOK = false
				return
			}
			checks[name] = "ok"
		}
		ping("database", deps.DB)
		ping("cache", deps.Cache)

		switch {
		case deps.NATS == nil:
			checks["nats"] = "not configured"
		case deps.NATS.IsConnected():
			checks["nats"] = "ok"
		default:
			checks["nats"] = "disconnected"
			allOK = false
		}

		status := "ready"
		code := fiber.StatusOK
		if !allOK {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
