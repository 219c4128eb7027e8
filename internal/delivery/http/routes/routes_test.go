package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freelance-match/internal/delivery/http/handler"
	"freelance-match/internal/delivery/http/middleware"
	v1 "freelance-match/internal/delivery/http/routes/v1"
	"freelance-match/internal/domain/matching"
	"freelance-match/internal/pkg/jwt"
	"freelance-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type stubRanking struct{}

func (stubRanking) RankApplicants(context.Context, uuid.UUID, int) ([]matching.MatchResult, error) {
	return []matching.MatchResult{}, nil
}
func (stubRanking) ExplainApplication(context.Context, uuid.UUID) (matching.MatchResult, error) {
	return matching.MatchResult{}, usecase.ErrApplicationNotFound
}
func (stubRanking) Recalculate(context.Context, uuid.UUID) (usecase.RecalculateSummary, error) {
	return usecase.RecalculateSummary{}, nil
}

const secret = "route-secret"

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())

	reg := &Registry{
		Health: handler.NewHealthHandler(nil, nil),
		V1:     v1.Handlers{Ranking: handler.NewRankingHandler(stubRanking{})},
		Events: func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) },
		Auth:   middleware.NewAuthMiddleware(jwt.NewHMACVerifier(secret, "", "authenticated")).Middleware(),

		EventsAuth: middleware.NewAuthMiddleware(
			jwt.NewHMACVerifier(secret, "", "authenticated"),
			middleware.WithQueryToken("access_token"),
		).Middleware(),
	}
	reg.Register(app)
	return app
}

func token(t *testing.T) string {
	t.Helper()
	c := jwtlib.RegisteredClaims{
		Subject:   uuid.NewString(),
		Audience:  jwtlib.ClaimStrings{"authenticated"},
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}
	s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func status(t *testing.T, app *fiber.App, path, bearer string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestRegistry_AuthGuardsAPI(t *testing.T) {
	app := newTestApp()
	path := "/api/v1/projects/" + uuid.NewString() + "/rankings"

	if got := status(t, app, path, ""); got != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", got)
	}
	if got := status(t, app, path, "garbage"); got != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", got)
	}
	if got := status(t, app, path, token(t)); got != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", got)
	}
	if got := status(t, app, "/api/v1/applications/"+uuid.NewString()+"/match", token(t)); got != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown application, got %d", got)
	}
}

func TestRegistry_HealthIsPublic(t *testing.T) {
	if got := status(t, newTestApp(), "/health", ""); got != http.StatusOK {
		t.Fatalf("expected 200, got %d", got)
	}
}

func TestRegistry_EventsAcceptQueryToken(t *testing.T) {
	app := newTestApp()

	if got := status(t, app, "/ws/events", ""); got != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", got)
	}
	if got := status(t, app, "/ws/events?access_token="+token(t), ""); got != http.StatusNoContent {
		t.Fatalf("expected 204 with query token, got %d", got)
	}
	if got := status(t, app, "/api/v1/projects/"+uuid.NewString()+"/rankings?access_token="+token(t), ""); got != http.StatusUnauthorized {
		t.Fatalf("api must not accept query tokens, got %d", got)
	}
}
