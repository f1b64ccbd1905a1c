package handler // handler defines the HTTP handlers of the booking API

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookmyshow/internal/config"
	"github.com/iliyamo/bookmyshow/internal/controller"
	"github.com/iliyamo/bookmyshow/internal/logging"
	"github.com/iliyamo/bookmyshow/internal/metrics"
	"github.com/iliyamo/bookmyshow/internal/middleware"
	"github.com/iliyamo/bookmyshow/internal/session"
)

// requestTimeout bounds the storage work done for one request.
const requestTimeout = 5 * time.Second

// saveTimeout bounds storing the session after the controller ran.  It
// starts fresh so a slow controller step does not lose the session.
const saveTimeout = 2 * time.Second

// Handler bundles what the page endpoints need: the controllers, the
// session store and the secret used to sign session tokens.
type Handler struct {
	Cfg      config.Config
	Ctrl     *controller.Controller
	Sessions session.Store
}

// NewHandler constructs a Handler and panics if a dependency is missing.
func NewHandler(cfg config.Config, ctrl *controller.Controller, store session.Store) *Handler {
	if ctrl == nil || store == nil {
		panic("nil dependency passed to NewHandler")
	}
	return &Handler{Cfg: cfg, Ctrl: ctrl, Sessions: store}
}

// step is one controller operation applied to the request's session.
type step func(ctx context.Context, s *session.Session) (*session.Session, controller.View, error)

// run applies fn to the session loaded by SessionAuth, stores the
// resulting session and writes the view.  A storage failure leaves the
// stored session as it was.
func (h *Handler) run(c echo.Context, fn step) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session", "kind": controller.KindUnauthorized})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	next, v, err := fn(ctx, s)
	kind := controller.KindOf(err)
	if kind != controller.KindStorage {
		sctx, scancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer scancel()
		if serr := h.Sessions.Save(sctx, next); serr != nil {
			logging.Ctx(ctx).Error().Err(serr).Str("session_id", s.ID).Msg("session save failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store unavailable", "kind": controller.KindStorage})
		}
	}
	if err != nil {
		metrics.ControllerErrors.WithLabelValues(string(kind)).Inc()
		if kind == controller.KindStorage {
			logging.Ctx(ctx).Error().Err(err).Str("page", string(s.Page)).Msg("storage failure")
		}
		return c.JSON(statusFor(kind), v)
	}
	return c.JSON(http.StatusOK, v)
}

// statusFor maps a controller error kind to an HTTP status.
func statusFor(k controller.Kind) int {
	switch k {
	case controller.KindNotFound:
		return http.StatusNotFound
	case controller.KindUnauthorized:
		return http.StatusUnauthorized
	case controller.KindForbidden:
		return http.StatusForbidden
	case controller.KindDuplicateUsername, controller.KindMissingSessionContext, controller.KindInvalidTransition:
		return http.StatusConflict
	case controller.KindInvalidRole, controller.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "kind": controller.KindValidation})
}
