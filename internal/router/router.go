package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bookmyshow/internal/config"
	"github.com/iliyamo/bookmyshow/internal/handler"
	"github.com/iliyamo/bookmyshow/internal/middleware"
	"github.com/iliyamo/bookmyshow/internal/model"
)

// RegisterRoutes registers the unauthenticated operational routes:
// liveness, readiness against db and Prometheus metrics.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterPages registers the booking flow.  POST /v1/sessions issues a
// session token; every other route needs it as a Bearer token.  Login and
// signup sit behind the token bucket when rdb is available.
func RegisterPages(e *echo.Echo, h *handler.Handler, rl config.RateLimitConfig, rdb *redis.Client) {
	e.POST("/v1/sessions", h.StartSession)

	g := e.Group("/v1", middleware.SessionAuth(h.Cfg.SessionSecret, h.Sessions))
	g.DELETE("/sessions", h.EndSession)
	g.GET("/page", h.Page)
	g.POST("/navigate", h.Navigate)

	limited := middleware.NewTokenBucket(rl, rdb)
	g.POST("/login", h.Login, limited)
	g.POST("/signup", h.Signup, limited)
	g.POST("/logout", h.Logout)

	g.POST("/movies/:movieId/shows/:showId/book", h.BookShow)
	g.GET("/history", h.History)
	g.POST("/history/back", h.HistoryBack)
	g.POST("/seats", h.ConfirmSeats)
	g.POST("/payment", h.Pay)
	g.POST("/booking/ack", h.Acknowledge)

	RegisterAdmin(g, h)
}

// RegisterAdmin registers the admin dashboard actions on g.  They require
// a logged-in admin.
func RegisterAdmin(g *echo.Group, h *handler.Handler) {
	admin := g.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.POST("/movies", h.AddMovie)
	admin.POST("/shows", h.AddShow)
}
