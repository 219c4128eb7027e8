package routes

import (
	"freelance-match/internal/delivery/http/handler"
	v1 "freelance-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health *handler.HealthHandler
	V1     v1.Handlers
	Events fiber.Handler
	Auth   fiber.Handler
	// EventsAuth guards /ws/events; nil leaves the stream public.
	EventsAuth fiber.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerEvents(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health == nil {
		return
	}
	r.Health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.V1, r.Auth)
}

func (r *Registry) registerEvents(app *fiber.App) {
	if r.Events == nil {
		return
	}
	if r.EventsAuth != nil {
		app.Get("/ws/events", r.EventsAuth, r.Events)
		return
	}
	app.Get("/ws/events", r.Events)
}
