package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookmyshow/internal/controller"
	"github.com/iliyamo/bookmyshow/internal/metrics"
	"github.com/iliyamo/bookmyshow/internal/session"
)

type seatsReq struct {
	Seats []int `json:"seats"`
}

type paymentReq struct {
	Method string `json:"method"`
}

// BookShow selects /movies/:movieId/shows/:showId and opens seat selection.
func (h *Handler) BookShow(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid movie id")
	}
	showID, err := strconv.ParseUint(c.Param("showId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid show id")
	}
	return h.run(c, func(ctx context.Context, s *session.Session) (*session.Session, controller.View, error) {
		return h.Ctrl.BookShow(ctx, s, movieID, showID)
	})
}

// ConfirmSeats books {seats: [...]} for the selected show.
func (h *Handler) ConfirmSeats(c echo.Context) error {
	var req seatsReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(ctx context.Context, s *session.Session) (*session.Session, controller.View, error) {
		next, v, err := h.Ctrl.ConfirmSeats(ctx, s, req.Seats)
		if err == nil {
			metrics.RecordBooking(len(req.Seats))
		}
		return next, v, err
	})
}

// Pay settles the booking with {method}.
func (h *Handler) Pay(c echo.Context) error {
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return h.run(c, func(ctx context.Context, s *session.Session) (*session.Session, controller.View, error) {
		next, v, err := h.Ctrl.Pay(ctx, s, req.Method)
		if err == nil {
			metrics.PaymentsTotal.WithLabelValues(strings.TrimSpace(req.Method)).Inc()
		}
		return next, v, err
	})
}

// Acknowledge closes the booking details page.
func (h *Handler) Acknowledge(c echo.Context) error {
	return h.run(c, h.Ctrl.Acknowledge)
}

// History opens the booking history of the logged-in user.
func (h *Handler) History(c echo.Context) error {
	return h.run(c, h.Ctrl.ViewHistory)
}

// HistoryBack leaves the booking history.
func (h *Handler) HistoryBack(c echo.Context) error {
	return h.run(c, h.Ctrl.BackToMovies)
}
