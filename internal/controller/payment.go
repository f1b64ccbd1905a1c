package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/bookmyshow/internal/logging"
	"github.com/iliyamo/bookmyshow/internal/payment"
	"github.com/iliyamo/bookmyshow/internal/queue"
	"github.com/iliyamo/bookmyshow/internal/session"
)

// Pay charges seats × price through the payment gateway.  Any chosen
// method succeeds; an empty choice keeps the visitor on the payment page.
// A booking is charged at most once.
func (c *Controller) Pay(ctx context.Context, s *session.Session, method string) (*session.Session, View, error) {
	next := s.Clone()
	if next.Page != session.PagePayment {
		return c.fail(ctx, s, next, sessionError(session.ErrTransitionNotAllowed))
	}
	if !next.HasSeats() {
		return c.contextMissing(ctx, s, next, "No seats selected for payment!")
	}
	if next.Payment != nil {
		return c.fail(ctx, s, next, newError(KindInvalidTransition, "This booking has already been paid.", errAlreadyPaid))
	}

	method = strings.TrimSpace(method)
	total := totalFor(next)
	ref, err := c.Payments.Charge(ctx, total, method)
	switch {
	case errors.Is(err, payment.ErrNoMethod):
		if ferr := next.Fire(session.EventValidationFailed); ferr != nil {
			return c.fail(ctx, s, s.Clone(), sessionError(ferr))
		}
		return c.fail(ctx, s, next, newError(KindValidation, "Please select a payment method.", err))
	case err != nil:
		return c.storageFail(s, err)
	}

	next.Payment = &session.PaymentReceipt{Method: method, Amount: total, Reference: ref}
	if err := next.Fire(session.EventPaid); err != nil {
		return c.fail(ctx, s, s.Clone(), sessionError(err))
	}
	c.publishConfirmed(ctx, next)

	v, err := c.view(ctx, next)
	if err != nil {
		return c.storageFail(s, err)
	}
	v.Message = fmt.Sprintf("Payment of %s via %s successful!", money(total), method)
	return next, v, nil
}

var errAlreadyPaid = errors.New("booking already paid")

// publishTimeout caps how long a booking event may hold up the response.
const publishTimeout = 2 * time.Second

func (c *Controller) publishConfirmed(ctx context.Context, s *session.Session) {
	if c.Events == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:     s.BookingID,
		ShowID:        s.Show.ID,
		ShowTime:      s.Show.ShowTime,
		Seats:         s.Seats,
		Amount:        s.Payment.Amount,
		PaymentMethod: s.Payment.Method,
		PaymentRef:    s.Payment.Reference,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if s.User != nil {
		ev.UserID = s.User.ID
		ev.Username = s.User.Username
	}
	if s.Movie != nil {
		ev.MovieID = s.Movie.ID
		ev.MovieName = s.Movie.Name
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := c.Events.PublishBookingConfirmed(pctx, ev); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Uint64("booking_id", s.BookingID).Msg("booking event not published")
	}
}

// Acknowledge closes the booking details page.  The selection is dropped
// and the visitor returns to the movie list.
func (c *Controller) Acknowledge(ctx context.Context, s *session.Session) (*session.Session, View, error) {
	next := s.Clone()
	if next.Page != session.PageBookingDetails {
		return c.fail(ctx, s, next, sessionError(session.ErrTransitionNotAllowed))
	}
	if !next.IsPaid() {
		return c.contextMissing(ctx, s, next, "No booking details available!")
	}
	return c.move(ctx, s, session.EventAcknowledged)
}
