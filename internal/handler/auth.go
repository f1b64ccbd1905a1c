package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookmyshow/internal/controller"
	"github.com/iliyamo/bookmyshow/internal/session"
)

// Login checks {username, password} and moves the session to the movie
// list or the admin dashboard.
func (h *Handler) Login(c echo.Context) error {
	var req controller.Credentials
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(ctx context.Context, s *session.Session) (*session.Session, controller.View, error) {
		return h.Ctrl.Login(ctx, s, req)
	})
}

// Signup registers {username, password} with role user.
func (h *Handler) Signup(c echo.Context) error {
	var req controller.Credentials
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(ctx context.Context, s *session.Session) (*session.Session, controller.View, error) {
		return h.Ctrl.Signup(ctx, s, req)
	})
}

// Logout clears the session and returns to the login page.
func (h *Handler) Logout(c echo.Context) error {
	return h.run(c, h.Ctrl.Logout)
}
