package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jelajahid/jelajah/pkg/iam"
	"github.com/jelajahid/jelajah/pkg/identity"
	"github.com/jelajahid/jelajah/pkg/kernel"
)

// SessionCookie is the cookie carrying the session credential.
const SessionCookie = "access_token"

// TokenMiddleware gates protected routes on a verified bearer credential.
// It is a pure gate: nothing is created or mutated on admission.
type TokenMiddleware struct {
	provider identity.Provider
}

// NewTokenMiddleware creates the access-control middleware.
func NewTokenMiddleware(provider identity.Provider) *TokenMiddleware {
	return &TokenMiddleware{provider: provider}
}

// Authenticate extracts the credential from the Authorization header, falling
// back to the session cookie, verifies it against the identity provider, and
// attaches the decoded identity to the request.
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No token provided",
			})
		}

		decoded, err := m.provider.VerifyToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": iam.ErrInvalidToken().Message,
			})
		}

		c.Locals("auth", &kernel.AuthContext{
			UserID:        decoded.UID,
			Email:         decoded.Email,
			Name:          decoded.Name,
			EmailVerified: decoded.EmailVerified,
			Claims:        decoded.Claims,
			SessionToken:  token,
		})

		return c.Next()
	}
}

// AuthFromContext returns the AuthContext the middleware attached, or nil.
func AuthFromContext(c *fiber.Ctx) *kernel.AuthContext {
	authCtx, ok := c.Locals("auth").(*kernel.AuthContext)
	if !ok {
		return nil
	}
	return authCtx
}

func extractToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1]
		}
	}
	return c.Cookies(SessionCookie)
}
