package handler

import (
	"context"
	"time"

	"freelance-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps     map[string]Pinger
	strategy func() string
}

// NewHealthHandler reports each named dependency; strategy, when set, names the active scoring method.
func NewHealthHandler(deps map[string]Pinger, strategy func() string) *HealthHandler {
	return &HealthHandler{deps: deps, strategy: strategy}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	healthy := true
	for name, p := range h.deps {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	data := fiber.Map{"checks": checks}
	if h.strategy != nil {
		data["scoring_method"] = h.strategy()
	}
	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
