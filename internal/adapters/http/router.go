package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

const (
	queryTimeout = 15 * time.Second
	// planTimeout covers two geocodes and one routing call.
	planTimeout = 30 * time.Second
)

// SetupRoutes registers all REST, GraphQL, WebSocket and static routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// Route planning calls external APIs; REST and GraphQL share one budget.
	planLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many route requests")
		},
	})

	v1 := app.Group("/v1")
	v1.Get("/sessions/:id", timeout.NewWithContext(SessionHandler(deps), queryTimeout))
	v1.Post("/sessions/:id/routes", planLimiter, timeout.NewWithContext(PlanRouteHandler(deps), planTimeout))
	v1.Get("/lookups", timeout.NewWithContext(ListLookupsHandler(deps), queryTimeout))
	v1.Get("/lookups/:id", timeout.NewWithContext(GetLookupHandler(deps), queryTimeout))
	v1.Get("/lookups/:id/geojson", timeout.NewWithContext(LookupGeoJSONHandler(deps), queryTimeout))

	app.Post("/graphql", planLimiter, timeout.NewWithContext(GraphQLHandler(deps), planTimeout))

	// API documentation (Swagger UI)
	SetupDocs(app, "api/openapi.yaml")

	// Map page
	SetupStatic(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(MapSocketHandler(deps)))
	if deps.Events != nil {
		app.Get("/ws/lookups", websocket.New(LookupEventsHandler(deps)))
	}
}
