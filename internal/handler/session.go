package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookmyshow/internal/controller"
	"github.com/iliyamo/bookmyshow/internal/logging"
	"github.com/iliyamo/bookmyshow/internal/middleware"
	"github.com/iliyamo/bookmyshow/internal/session"
	"github.com/iliyamo/bookmyshow/internal/utils"
)

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type sessionResp struct {
	SessionID string          `json:"session_id"`
	Session   tokenPart       `json:"session"`
	View      controller.View `json:"view"`
}

type navigateReq struct {
	Page string `json:"page"`
}

// StartSession opens a new session on the login page and returns the
// signed token that identifies it.
func (h *Handler) StartSession(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	s := session.New(session.NewID())
	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, s.ID, h.Cfg.SessionTTL)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("sign session token")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue session"})
	}
	_, v, err := h.Ctrl.Render(ctx, s)
	if err != nil {
		return c.JSON(statusFor(controller.KindOf(err)), v)
	}
	if err := h.Sessions.Save(ctx, s); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("save new session")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store unavailable", "kind": controller.KindStorage})
	}
	return c.JSON(http.StatusCreated, sessionResp{
		SessionID: s.ID,
		Session:   tokenPart{Token: tok.Token, Expires: tok.Exp},
		View:      v,
	})
}

// EndSession forgets the caller's session.  The token stops working.
func (h *Handler) EndSession(c echo.Context) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	if err := h.Sessions.Delete(ctx, s.ID); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("session_id", s.ID).Msg("delete session")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store unavailable", "kind": controller.KindStorage})
	}
	return c.NoContent(http.StatusNoContent)
}

// Page renders the session's current page.
func (h *Handler) Page(c echo.Context) error {
	return h.run(c, h.Ctrl.Render)
}

// Navigate jumps to the page named in the body.
func (h *Handler) Navigate(c echo.Context) error {
	var req navigateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(ctx context.Context, s *session.Session) (*session.Session, controller.View, error) {
		return h.Ctrl.Navigate(ctx, s, req.Page)
	})
}
