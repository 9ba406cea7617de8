package middleware

// identity.go defines the context key JWTAuth stores the administrator
// under and a typed accessor for handlers.

import (
	"github.com/labstack/echo/v4"
)

// ContextUsername is the echo.Context key holding the authenticated
// administrator's username.
const ContextUsername = "username"

// Username returns the authenticated administrator, or "" when the request
// did not pass through JWTAuth.
func Username(c echo.Context) string {
	if v, ok := c.Get(ContextUsername).(string); ok {
		return v
	}
	return ""
}

// actor names the caller for request logs.
func actor(c echo.Context) string {
	if u := Username(c); u != "" {
		return u
	}
	return "guest"
}
