package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/bookmyshow/internal/logging"
	"github.com/iliyamo/bookmyshow/internal/repository"
	"github.com/iliyamo/bookmyshow/internal/session"
)

// ConfirmSeats books the chosen seat numbers for the selected show and
// moves on to payment.  Availability is re-read from storage first so the
// check uses the current count rather than the one shown earlier.
func (c *Controller) ConfirmSeats(ctx context.Context, s *session.Session, seats []int) (*session.Session, View, error) {
	next := s.Clone()
	if next.Page != session.PageSeatSelection {
		return c.fail(ctx, s, next, sessionError(session.ErrTransitionNotAllowed))
	}
	if !next.HasShow() || next.User == nil {
		return c.contextMissing(ctx, s, next, "No movie or show selected!")
	}

	movie, err := c.Movies.GetByID(ctx, next.Movie.ID)
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		next.ClearSelection()
		return c.contextMissing(ctx, s, next, "Movie no longer exists.")
	case err != nil:
		return c.storageFail(s, err)
	}
	next.Movie = &movie
	available := movie.SeatsAvailable

	if msg := checkSeats(seats, available); msg != "" {
		return c.seatsRejected(ctx, s, next, msg, nil)
	}

	id, err := c.Bookings.Record(ctx, next.User.ID, movie.ID, next.Show.ID, seats)
	switch {
	case errors.Is(err, repository.ErrInsufficientSeats):
		return c.seatsRejected(ctx, s, next, "Not enough seats available!", err)
	case errors.Is(err, repository.ErrMovieNotFound):
		next.ClearSelection()
		return c.contextMissing(ctx, s, next, "Movie no longer exists.")
	case err != nil:
		return c.storageFail(s, err)
	}

	next.Seats = append([]int(nil), seats...)
	next.BookingID = id
	next.Payment = nil
	next.Movie.SeatsAvailable = available - len(seats)
	if err := next.Fire(session.EventSeatsConfirmed); err != nil {
		return c.fail(ctx, s, s.Clone(), sessionError(err))
	}
	logging.Ctx(ctx).Info().
		Uint64("booking_id", id).
		Uint64("user_id", next.User.ID).
		Uint64("movie_id", movie.ID).
		Uint64("show_id", next.Show.ID).
		Ints("seats", seats).
		Msg("booking recorded")

	v, err := c.view(ctx, next)
	if err != nil {
		return c.storageFail(s, err)
	}
	v.Message = "Seats booked: " + displaySeats(seats)
	return next, v, nil
}

// checkSeats validates a selection against the available count.  The size
// check runs before the empty check, then each number must be a distinct
// seat in 1..available.
func checkSeats(seats []int, available int) string {
	if len(seats) > available {
		return "Not enough seats available!"
	}
	if len(seats) == 0 {
		return "Please select at least one seat."
	}
	seen := make(map[int]struct{}, len(seats))
	for _, n := range seats {
		if n < 1 || n > available {
			return fmt.Sprintf("Seat %d is not available.", n)
		}
		if _, dup := seen[n]; dup {
			return fmt.Sprintf("Seat %d was selected more than once.", n)
		}
		seen[n] = struct{}{}
	}
	return ""
}

func (c *Controller) seatsRejected(ctx context.Context, orig, next *session.Session, msg string, cause error) (*session.Session, View, error) {
	if err := next.Fire(session.EventValidationFailed); err != nil {
		return c.fail(ctx, orig, orig.Clone(), sessionError(err))
	}
	return c.fail(ctx, orig, next, newError(KindValidation, msg, cause))
}

// contextMissing sends a guarded page back to the movie list.
func (c *Controller) contextMissing(ctx context.Context, orig, next *session.Session, msg string) (*session.Session, View, error) {
	if err := next.Fire(session.EventContextMissing); err != nil {
		return c.fail(ctx, orig, orig.Clone(), sessionError(err))
	}
	return c.fail(ctx, orig, next, newError(KindMissingSessionContext, msg, nil))
}

func displaySeats(seats []int) string {
	parts := make([]string, len(seats))
	for i, n := range seats {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
