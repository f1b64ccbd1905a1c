package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookmyshow/internal/model"
)

// RequireRole returns a middleware that only lets through sessions whose
// logged-in user has one of roles.  It must run after SessionAuth, which
// stores the role under "role".  A session without a user gets 401, any
// other role 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Please login first.", "kind": "unauthorized"})
			}
			if !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "kind": "forbidden"})
			}
			return next(c)
		}
	}
}
