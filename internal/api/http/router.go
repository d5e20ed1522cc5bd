package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/api/http/handlers"
	"github.com/spec-kit/support-agent/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
}
