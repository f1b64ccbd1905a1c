package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookmyshow/internal/logging"
	"github.com/iliyamo/bookmyshow/internal/metrics"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an ID (taken from X-Request-ID
// when the client sent one), attaches a logger carrying it to the request
// context, and logs and measures the request once it completes.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, id)

			l := logging.L().With().Str("request_id", id).Logger()
			c.SetRequest(req.WithContext(logging.WithContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			elapsed := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordAPIRequest(req.Method, route, status, elapsed)

			ev := l.Info()
			if status >= 500 {
				ev = l.Error()
			}
			ev.Str("method", req.Method).
				Str("route", route).
				Int("status", status).
				Dur("latency", elapsed).
				Str("session_id", sessionID(c)).
				Msg("request")
			return nil
		}
	}
}
