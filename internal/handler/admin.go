package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookmyshow/internal/controller"
	"github.com/iliyamo/bookmyshow/internal/session"
)

// AddMovie creates a movie from {name, description, seats_available}.
func (h *Handler) AddMovie(c echo.Context) error {
	var req controller.MovieForm
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(ctx context.Context, s *session.Session) (*session.Session, controller.View, error) {
		return h.Ctrl.AddMovie(ctx, s, req)
	})
}

// AddShow creates a show from {movie_id, show_time, price}.
func (h *Handler) AddShow(c echo.Context) error {
	var req controller.ShowForm
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(ctx context.Context, s *session.Session) (*session.Session, controller.View, error) {
		return h.Ctrl.AddShow(ctx, s, req)
	})
}
