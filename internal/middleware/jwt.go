package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers
)

// TokenVerifier validates a raw bearer token and returns its subject.
// *service.AuthService satisfies it.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// stores the token's subject under ContextUsername.  Handlers read it back
// with Username(c).
func JWTAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token de acesso ausente"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			username, err := v.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			c.Set(ContextUsername, username)
			return next(c)
		}
	}
}
