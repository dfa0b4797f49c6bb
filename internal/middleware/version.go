package middleware

import (
	"github.com/labstack/echo/v4"
)

// VersionRoute creates a version-specific route group that stamps the
// X-API-Version header on every response.
func VersionRoute(e *echo.Echo, version string, m ...echo.MiddlewareFunc) *echo.Group {
	group := e.Group("/"+version, VersionHeader(version))
	group.Use(m...)
	return group
}

// VersionHeader adds version information to response headers
func VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			return next(c)
		}
	}
}
