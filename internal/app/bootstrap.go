package app

import (
	"context"
	"fmt"
	"strings"

	"freelance-match/internal/config"
	"freelance-match/internal/delivery/http/handler"
	"freelance-match/internal/delivery/http/middleware"
	"freelance-match/internal/delivery/http/routes"
	v1 "freelance-match/internal/delivery/http/routes/v1"
	"freelance-match/internal/pkg/jwt"
	"freelance-match/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New wires HTTP delivery onto an already built container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container, starts the websocket hub and returns a cleanup that stops both.
func Bootstrap(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Hub.Run(hubCtx)
	}()

	app := New(c)
	cleanup := func() error {
		stopHub()
		<-done
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger.Named("http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger.Named("http")).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	deps := map[string]handler.Pinger{"database": c.DB}
	if c.Cache.Available() {
		deps["cache"] = c.Cache
	}

	verifier := jwt.NewHMACVerifier(c.Config.JWT.Secret, c.Config.JWT.Issuer, c.Config.JWT.Audience)

	reg := &routes.Registry{
		Health: handler.NewHealthHandler(deps, func() string { return string(c.Chain.ActiveStrategy()) }),
		V1:     v1.Handlers{Ranking: handler.NewRankingHandler(c.Ranking)},
		Events: ws.NewHandler(c.Hub, c.Logger.Named("ws")).HandleEvents,
		Auth:   middleware.NewAuthMiddleware(verifier).Middleware(),

		EventsAuth: middleware.NewAuthMiddleware(verifier, middleware.WithQueryToken("access_token")).Middleware(),
	}
	if c.Designs != nil {
		reg.V1.Design = handler.NewDesignHandler(c.Designs)
	}
	reg.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
