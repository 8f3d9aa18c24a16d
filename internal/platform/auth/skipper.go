package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// DefaultSkipper exempts unauthenticated endpoints from the JWT middleware:
// login, health checks, and the metrics exposition endpoint.
func DefaultSkipper(c echo.Context) bool {
	path := c.Request().URL.Path
	switch path {
	case "/health", "/health/db", "/metrics":
		return true
	}
	return strings.HasSuffix(path, "/auth/login")
}
