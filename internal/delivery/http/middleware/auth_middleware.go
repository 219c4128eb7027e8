package middleware

import (
	"errors"
	"strings"

	"freelance-match/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
	CtxRoleKey   = "role"
)

type AuthMiddleware struct {
	jwt        jwt.Verifier
	queryParam string
}

type AuthOption func(*AuthMiddleware)

// WithQueryToken also accepts the token from the named query parameter. Browsers cannot set
// headers on a WebSocket handshake, so the events stream authenticates this way.
func WithQueryToken(param string) AuthOption {
	return func(m *AuthMiddleware) {
		m.queryParam = strings.TrimSpace(param)
	}
}

func NewAuthMiddleware(verifier jwt.Verifier, opts ...AuthOption) *AuthMiddleware {
	m := &AuthMiddleware{jwt: verifier}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok && m.queryParam != "" {
			token = strings.TrimSpace(c.Query(m.queryParam))
			ok = token != ""
		}
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		c.Locals(CtxRoleKey, claims.Role)

		return c.Next()
	}
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
