package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/autlan/recolecta/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// legacyRoutesSunset is when the Spanish /v1/rutas aliases go away.
var legacyRoutesSunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// Options tunes router behaviour that differs between deployments.
type Options struct {
	RateLimit int    // requests per minute per IP; 0 disables limiting
	SpecPath  string // OpenAPI document served under /docs
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, opts Options) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	if opts.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			Next: func(c *fiber.Ctx) bool {
				// keep probes and scrapes out of the budget
				return quietPaths[c.Path()]
			},
			LimitReached: func(c *fiber.Ctx) error {
				return errTooManyRequests(c, "too many requests, please try again later")
			},
		}))
	}

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
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{Path: "/v1/rutas", SunsetDate: legacyRoutesSunset, Alternative: "/v1/routes"},
		{Path: "/v1/rutas/:id", SunsetDate: legacyRoutesSunset, Alternative: "/v1/routes/{id}"},
	}))

	// Health & readiness (no timeout: fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Get("/routes", withTimeout(ListRoutesHandler(deps)))
	v1.Get("/routes/neighborhoods", withTimeout(RouteNeighborhoodsHandler(deps)))
	v1.Get("/routes/:id", withTimeout(GetRouteHandler(deps)))
	v1.Get("/rutas", withTimeout(ListRoutesHandler(deps)))
	v1.Get("/rutas/:id", withTimeout(GetRouteHandler(deps)))
	v1.Get("/neighborhoods", withTimeout(ListNeighborhoodsHandler(deps)))

	v1.Get("/map/scene", withTimeout(MapSceneHandler(deps)))
	v1.Get("/map/routes.geojson", withTimeout(MapGeoJSONHandler(deps)))

	v1.Get("/articles", withTimeout(ListArticlesHandler(deps)))
	v1.Get("/articles/categories", withTimeout(ArticleCategoriesHandler(deps)))
	v1.Get("/articles/:id", withTimeout(GetArticleHandler(deps)))

	v1.Get("/contact/options", ContactOptionsHandler())
	v1.Post("/contact", withTimeout(ContactHandler(deps)))

	v1.Get("/me", RequireAuth(deps), withTimeout(MeHandler(deps)))

	admin := v1.Group("/admin", RequireAuth(deps), RequireAdmin(deps))
	SetupAdminRoutes(admin, deps)

	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	SetupDocs(app, opts.SpecPath)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/map", websocket.New(WebSocketHandler(deps)))
}

func withTimeout(h fiber.Handler) fiber.Handler {
	return timeout.NewWithContext(h, requestTimeout)
}
