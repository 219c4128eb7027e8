package v1

import (
	"freelance-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Ranking *handler.RankingHandler
	Design  *handler.DesignHandler
}

// Register mounts every v1 endpoint behind the auth handler when one is given.
func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}

	protected := r
	if auth != nil {
		protected = r.Group("", auth)
	}

	if h.Ranking != nil {
		h.Ranking.RegisterRoutes(protected)
	}
	if h.Design != nil {
		h.Design.RegisterRoutes(protected)
	}
}
