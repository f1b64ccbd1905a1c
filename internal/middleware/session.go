package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/bookmyshow/internal/session"
	"github.com/iliyamo/bookmyshow/internal/utils"
)

// Context keys set by SessionAuth.
const (
	SessionKey   = "session"
	SessionIDKey = "session_id"
	RoleKey      = "role"
)

// SessionAuth returns an Echo middleware that validates a Bearer session
// token, loads the session it names from store and injects it into the
// request context.  Handlers read it back with CurrentSession.  The role
// of the logged-in user (empty before login) is stored under "role" for
// RequireRole.
func SessionAuth(secret string, store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token", "kind": "unauthorized"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sid, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token", "kind": "unauthorized"})
			}

			s, err := store.Get(c.Request().Context(), sid)
			switch {
			case errors.Is(err, session.ErrSessionNotFound):
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired", "kind": "unauthorized"})
			case err != nil:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store unavailable", "kind": "storage"})
			}

			c.Set(SessionKey, s)
			c.Set(SessionIDKey, s.ID)
			role := ""
			if s.User != nil {
				role = string(s.User.Role)
			}
			c.Set(RoleKey, role)
			return next(c)
		}
	}
}

// CurrentSession returns the session loaded by SessionAuth.
func CurrentSession(c echo.Context) (*session.Session, bool) {
	s, ok := c.Get(SessionKey).(*session.Session)
	return s, ok && s != nil
}

// sessionID identifies the caller for rate limiting.  It returns "anon"
// when no session was loaded.
func sessionID(c echo.Context) string {
	if v, ok := c.Get(SessionIDKey).(string); ok && v != "" {
		return v
	}
	if s, ok := CurrentSession(c); ok && s.ID != "" {
		return s.ID
	}
	return "anon"
}
