package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/bookmyshow/internal/model"
	"github.com/iliyamo/bookmyshow/internal/payment"
	"github.com/iliyamo/bookmyshow/internal/session"
)

// View is the rendered state of one page.  Exactly one of the page
// sections is set, matching Page.
type View struct {
	Page    session.Page `json:"page"`
	Title   string       `json:"title"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Kind    Kind         `json:"kind,omitempty"`

	Login          *LoginView          `json:"login,omitempty"`
	Movies         []MovieListing      `json:"movies,omitempty"`
	SeatSelection  *SeatSelectionView  `json:"seat_selection,omitempty"`
	Payment        *PaymentView        `json:"payment,omitempty"`
	BookingDetails *BookingDetailsView `json:"booking_details,omitempty"`
	History        *HistoryView        `json:"booking_history,omitempty"`
	Admin          *AdminView          `json:"admin,omitempty"`
}

type LoginView struct {
	Options []string `json:"options"`
}

// MovieListing is one movie on the movies page with its bookable shows.
type MovieListing struct {
	model.Movie
	Shows []model.Show `json:"shows"`
}

type SeatSelectionView struct {
	MovieID        uint64  `json:"movie_id"`
	MovieName      string  `json:"movie_name"`
	ShowID         uint64  `json:"show_id"`
	ShowTime       string  `json:"show_time"`
	Price          float64 `json:"price"`
	SeatsAvailable int     `json:"seats_available"`
	// Choices are the seat numbers that may be picked, 1..SeatsAvailable.
	Choices []int `json:"choices"`
}

type PaymentView struct {
	MovieName string   `json:"movie_name"`
	ShowTime  string   `json:"show_time"`
	Seats     []int    `json:"seats"`
	Total     float64  `json:"total"`
	TotalText string   `json:"total_text"`
	Methods   []string `json:"methods"`
}

type BookingDetailsView struct {
	BookingID uint64                  `json:"booking_id"`
	Movie     string                  `json:"movie"`
	Show      string                  `json:"show"`
	Seats     string                  `json:"seats"`
	Receipt   *session.PaymentReceipt `json:"receipt,omitempty"`
	Note      string                  `json:"note"`
}

type HistoryView struct {
	Bookings []model.BookingHistoryEntry `json:"bookings"`
	Empty    string                      `json:"empty,omitempty"`
}

type AdminView struct {
	Movies []model.Movie `json:"movies"`
}

var titles = map[session.Page]string{
	session.PageLogin:          "BookMyShow - Login/Signup",
	session.PageMovies:         "BookMyShow - Movies",
	session.PageSeatSelection:  "Select Seats",
	session.PagePayment:        "Payment",
	session.PageBookingDetails: "Booking Details",
	session.PageBookingHistory: "Booking History",
	session.PageAdmin:          "Admin Dashboard",
}

// Render shows the session's current page.  A guarded page whose
// selection is missing sends the visitor back to the movie list with a
// missing_session_context error, and a page other than login without a
// user sends them to login.
func (c *Controller) Render(ctx context.Context, s *session.Session) (*session.Session, View, error) {
	next := s.Clone()
	if next.Page != session.PageLogin && next.User == nil {
		next.Clear()
		return c.fail(ctx, s, next, newError(KindUnauthorized, "Please login first.", session.ErrNotAuthenticated))
	}
	if msg, missing := missingContext(next); missing {
		if err := next.Fire(session.EventContextMissing); err != nil {
			return s, View{Page: s.Page}, sessionError(err)
		}
		return c.fail(ctx, s, next, newError(KindMissingSessionContext, msg, nil))
	}
	v, err := c.view(ctx, next)
	if err != nil {
		return c.storageFail(s, err)
	}
	return next, v, nil
}

// Navigate jumps directly to page p and renders it.
func (c *Controller) Navigate(ctx context.Context, s *session.Session, page string) (*session.Session, View, error) {
	p, err := session.ParsePage(page)
	if err != nil {
		return c.fail(ctx, s, s.Clone(), sessionError(err))
	}
	next := s.Clone()
	if err := next.Navigate(p); err != nil {
		return c.fail(ctx, s, s.Clone(), sessionError(err))
	}
	return c.land(ctx, s, next)
}

// land renders next after a transition.  A storage failure while
// rendering hands back orig so the transition is not kept.
func (c *Controller) land(ctx context.Context, orig, next *session.Session) (*session.Session, View, error) {
	out, v, err := c.Render(ctx, next)
	if err != nil && KindOf(err) == KindStorage {
		return c.storageFail(orig, err)
	}
	return out, v, err
}

func missingContext(s *session.Session) (string, bool) {
	switch s.Page {
	case session.PageSeatSelection:
		if !s.HasShow() {
			return "No movie or show selected!", true
		}
	case session.PagePayment:
		if !s.HasSeats() {
			return "No seats selected for payment!", true
		}
	case session.PageBookingDetails:
		if !s.IsPaid() {
			return "No booking details available!", true
		}
	}
	return "", false
}

// fail renders next with cerr attached.  If rendering itself hits storage,
// the untouched original session is returned instead.
func (c *Controller) fail(ctx context.Context, orig, next *session.Session, cerr *Error) (*session.Session, View, error) {
	if cerr.Kind == KindStorage {
		return c.storageFail(orig, cerr)
	}
	v, err := c.view(ctx, next)
	if err != nil {
		return c.storageFail(orig, err)
	}
	v.Error = cerr.Message
	v.Kind = cerr.Kind
	return next, v, cerr
}

func (c *Controller) storageFail(orig *session.Session, err error) (*session.Session, View, error) {
	var cerr *Error
	if !errors.As(err, &cerr) {
		cerr = storageError(err)
	}
	return orig, View{Page: orig.Page, Title: titles[orig.Page], Error: cerr.Message, Kind: cerr.Kind}, cerr
}

// view builds the page for s without any guard checks.  Guarded pages
// with missing selection render only their title.
func (c *Controller) view(ctx context.Context, s *session.Session) (View, error) {
	v := View{Page: s.Page, Title: titles[s.Page]}
	switch s.Page {
	case session.PageLogin:
		v.Login = &LoginView{Options: []string{"Login", "Signup"}}

	case session.PageMovies:
		listing, err := c.movieListing(ctx)
		if err != nil {
			return View{}, err
		}
		v.Movies = listing

	case session.PageSeatSelection:
		if !s.HasShow() {
			return v, nil
		}
		avail := s.Movie.SeatsAvailable
		choices := make([]int, 0, max(avail, 0))
		for i := 1; i <= avail; i++ {
			choices = append(choices, i)
		}
		v.SeatSelection = &SeatSelectionView{
			MovieID:        s.Movie.ID,
			MovieName:      s.Movie.Name,
			ShowID:         s.Show.ID,
			ShowTime:       s.Show.ShowTime,
			Price:          s.Show.Price,
			SeatsAvailable: avail,
			Choices:        choices,
		}

	case session.PagePayment:
		if !s.HasSeats() {
			return v, nil
		}
		total := totalFor(s)
		pv := &PaymentView{
			ShowTime:  s.Show.ShowTime,
			Seats:     s.Seats,
			Total:     total,
			TotalText: money(total),
			Methods:   payment.Methods,
		}
		if s.Movie != nil {
			pv.MovieName = s.Movie.Name
		}
		v.Payment = pv

	case session.PageBookingDetails:
		if !s.IsPaid() {
			return v, nil
		}
		v.BookingDetails = &BookingDetailsView{
			BookingID: s.BookingID,
			Movie:     s.Movie.Name,
			Show:      s.Show.ShowTime,
			Seats:     model.JoinSeats(s.Seats),
			Receipt:   s.Payment,
			Note:      "Thank you for booking with us!",
		}

	case session.PageBookingHistory:
		if s.User == nil {
			return v, nil
		}
		entries, err := c.Bookings.History(ctx, s.User.ID)
		if err != nil {
			return View{}, err
		}
		hv := &HistoryView{Bookings: entries}
		if len(entries) == 0 {
			hv.Empty = "No bookings found."
		}
		v.History = hv

	case session.PageAdmin:
		movies, err := c.Movies.List(ctx)
		if err != nil {
			return View{}, err
		}
		v.Admin = &AdminView{Movies: movies}
	}
	return v, nil
}

func (c *Controller) movieListing(ctx context.Context) ([]MovieListing, error) {
	movies, err := c.Movies.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MovieListing, 0, len(movies))
	for _, m := range movies {
		shows, err := c.Shows.ListForMovie(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, MovieListing{Movie: m, Shows: shows})
	}
	return out, nil
}

func totalFor(s *session.Session) float64 {
	return float64(len(s.Seats)) * s.Show.Price
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }
