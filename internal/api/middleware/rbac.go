package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// RBAC lets the request through only when the role claim injected by Auth is
// one of roles. Fieldops knows three roles: admin, manager, and user. Route
// groups combine them, e.g. user management is admin only while client and
// asset mutations take admin or manager.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !slices.Contains(roles, role) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
