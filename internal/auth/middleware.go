package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/support-agent/pkg/util"
)

const clientKey = "auth_client"

// Middleware validates bearer tokens issued to calling services. When
// authentication is disabled the middleware is a no-op passthrough.
type Middleware struct {
	tokens  *TokenManager
	enabled bool
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, enabled bool) *Middleware {
	return &Middleware{tokens: tokens, enabled: enabled}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if !m.enabled {
		return c.Next()
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(clientKey, claims.ClientID)
	return c.Next()
}

// ClientFromContext retrieves the authenticated client id.
func ClientFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(clientKey)
	if val == nil {
		return "", false
	}
	clientID, ok := val.(string)
	return clientID, ok
}
