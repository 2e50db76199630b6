package middleware

import (
	"strings"

	"vyns/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "auth-token"

const claimsKey = "session_claims"

// TokenFromRequest returns the session token from the cookie, falling back
// to an "Authorization: Bearer <token>" header.
func TokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}

	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthRequired is a Fiber middleware that rejects requests without a valid
// session token and stores the token's claims for subsequent handlers.
func AuthRequired(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Not authenticated",
			})
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   services.ErrInvalidToken.Error(),
			})
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// Claims returns the claims stored by AuthRequired, or nil outside it.
func Claims(c *fiber.Ctx) *services.SessionClaims {
	claims, _ := c.Locals(claimsKey).(*services.SessionClaims)
	return claims
}
