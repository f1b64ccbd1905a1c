package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/iliyamo/bookmyshow/internal/model"
)

var (
	// ErrTransitionNotAllowed is returned when an event has no edge from
	// the session's current page.  The session is left unchanged.
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	// ErrNotAuthenticated is returned when a page needs a logged-in user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the user's role may not open a page.
	ErrForbidden = errors.New("forbidden")
)

// Identity is the authenticated user carried by a session.
type Identity struct {
	ID       uint64     `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// PaymentReceipt is what the payment step leaves behind for the booking
// details page.
type PaymentReceipt struct {
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
}

// Session is the transient state of one visitor.  Movie, Show, Seats,
// BookingID and Payment are the selection made during a booking and are
// cleared once the booking is acknowledged; everything is cleared on
// logout.
type Session struct {
	ID        string          `json:"id"`
	Page      Page            `json:"page"`
	User      *Identity       `json:"user,omitempty"`
	Movie     *model.Movie    `json:"movie,omitempty"`
	Show      *model.Show     `json:"show,omitempty"`
	Seats     []int           `json:"seats,omitempty"`
	BookingID uint64          `json:"booking_id,omitempty"`
	Payment   *PaymentReceipt `json:"payment,omitempty"`
}

// New returns a fresh session on the login page.
func New(id string) *Session {
	return &Session{ID: id, Page: PageLogin}
}

// Clone returns a deep copy so controllers can work on a draft and hand
// the original back untouched when an operation fails.
func (s *Session) Clone() *Session {
	c := *s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	if s.Movie != nil {
		m := *s.Movie
		c.Movie = &m
	}
	if s.Show != nil {
		sh := *s.Show
		c.Show = &sh
	}
	if s.Payment != nil {
		p := *s.Payment
		c.Payment = &p
	}
	c.Seats = slices.Clone(s.Seats)
	return &c
}

// Fire applies ev to the current page.  Logout wipes the whole session
// and acknowledging a booking drops the selection.
func (s *Session) Fire(ev Event) error {
	to, ok := Next(s.Page, ev)
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrTransitionNotAllowed, ev, s.Page)
	}
	switch ev {
	case EventLogout:
		s.Clear()
	case EventAcknowledged:
		s.ClearSelection()
	}
	s.Page = to
	return nil
}

// Navigate moves straight to p, the way a visitor would by typing a URL.
// Guarded pages are entered anyway; their controllers send the visitor
// back to the movie list when the selection they need is missing.
func (s *Session) Navigate(p Page) error {
	if s.User == nil {
		return ErrNotAuthenticated
	}
	if p == PageLogin {
		return fmt.Errorf("%w: use logout to return to %s", ErrTransitionNotAllowed, p)
	}
	if (p == PageAdmin) != (s.User.Role == model.RoleAdmin) {
		return fmt.Errorf("%w: %s may not open %s", ErrForbidden, s.User.Role, p)
	}
	s.Page = p
	return nil
}

// Clear resets the session to the login page with no user or selection.
func (s *Session) Clear() {
	*s = Session{ID: s.ID, Page: PageLogin}
}

// ClearSelection drops the movie, show, seats and payment chosen for a booking.
func (s *Session) ClearSelection() {
	s.Movie = nil
	s.Show = nil
	s.Seats = nil
	s.BookingID = 0
	s.Payment = nil
}

// HasShow reports whether a movie and one of its shows are selected.
func (s *Session) HasShow() bool { return s.Movie != nil && s.Show != nil }

// HasSeats reports whether a show and booked seats are present, which is
// what the payment page needs.
func (s *Session) HasSeats() bool { return s.Show != nil && len(s.Seats) > 0 }

// HasBooking reports whether seats were booked for the selected show.
func (s *Session) HasBooking() bool { return s.HasShow() && len(s.Seats) > 0 }

// IsPaid reports whether the booking has been paid for, which is what the
// booking details page needs.
func (s *Session) IsPaid() bool { return s.HasBooking() && s.Payment != nil }
