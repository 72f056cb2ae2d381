package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skyframe/skyframe-api/internal/config"
	"github.com/skyframe/skyframe-api/internal/handler"
	"github.com/skyframe/skyframe-api/internal/middleware"
	"github.com/skyframe/skyframe-api/internal/observability"
)

// Dependencies groups router dependencies for registration. Handlers may be
// nil when their backing store is not configured; the matching routes are
// then simply absent and the rest of the API keeps serving.
type Dependencies struct {
	ProfileHandler    *handler.ProfileHandler
	AdminHandler      *handler.AdminHandler
	UsersHandler      *handler.UsersHandler
	SessionMiddleware fiber.Handler
	AdminRateLimit    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	sessionMiddleware := deps.SessionMiddleware
	if sessionMiddleware == nil {
		sessionMiddleware = middleware.SessionProtected(cfg.JWTSecret)
	}

	// Public directory and registration-time username probe
	if deps.UsersHandler != nil {
		deps.UsersHandler.Register(api.Group("/users"))
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterPublic(api.Group("/auth"))

		profile := api.Group("/auth/profile", sessionMiddleware)
		deps.ProfileHandler.Register(profile)

		// Provisioning is a server-to-server hook from the auth provider;
		// the session identifies the new user, the service key the caller.
		provision := api.Group("/auth/profile/provision", sessionMiddleware, middleware.ServiceKeyProtected(cfg.ServiceKey))
		deps.ProfileHandler.RegisterProvision(provision)
	}

	// Privileged surface: session, admin role, then per-admin rate limit
	if deps.AdminHandler != nil {
		admin := api.Group("/auth/admin", sessionMiddleware, middleware.RequireRole("admin"))
		if deps.AdminRateLimit != nil {
			admin.Use(deps.AdminRateLimit)
		}
		deps.AdminHandler.Register(admin)
	}
}
