package middleware

import (
	"net/http"

	"repairdesk/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through only when the authenticated
// employee holds one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetEmployeeIDFromContext(ctx); !ok {
				return common.SendUnauthorizedError(c)
			}
			role, _ := common.GetRoleFromContext(ctx)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, common.CreateErrorResponse("FORBIDDEN", "Insufficient permissions", nil))
			}
			return next(c)
		}
	}
}
