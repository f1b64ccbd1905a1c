// Package session holds the per-user navigation state: which page a
// visitor is on, who they are, and the movie, show and seats they picked
// along the way.  Every Session is independent; there is no shared
// current-page variable.
package session

import (
	"errors"
	"fmt"
)

// Page identifies one screen of the booking flow.
type Page string

const (
	PageLogin          Page = "login"
	PageMovies         Page = "movies"
	PageSeatSelection  Page = "seat_selection"
	PagePayment        Page = "payment"
	PageBookingDetails Page = "booking_details"
	PageBookingHistory Page = "booking_history"
	PageAdmin          Page = "admin"
)

// ErrUnknownPage is returned by ParsePage for identifiers outside the set above.
var ErrUnknownPage = errors.New("unknown page")

// ParsePage validates a page identifier received from a client.
func ParsePage(s string) (Page, error) {
	switch p := Page(s); p {
	case PageLogin, PageMovies, PageSeatSelection, PagePayment,
		PageBookingDetails, PageBookingHistory, PageAdmin:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

// Event is an outcome reported by a page controller.  The transition
// table decides which page the outcome leads to.
type Event string

const (
	EventLoginUser        Event = "login_user"
	EventLoginAdmin       Event = "login_admin"
	EventLoginFailed      Event = "login_failed"
	EventBookShow         Event = "book_show"
	EventViewHistory      Event = "view_history"
	EventLogout           Event = "logout"
	EventSeatsConfirmed   Event = "seats_confirmed"
	EventValidationFailed Event = "validation_failed"
	EventContextMissing   Event = "context_missing"
	EventPaid             Event = "paid"
	EventAcknowledged     Event = "acknowledged"
	EventBackToMovies     Event = "back_to_movies"
	EventAdminAction      Event = "admin_action"
)

var transitions = map[Page]map[Event]Page{
	PageLogin: {
		EventLoginUser:   PageMovies,
		EventLoginAdmin:  PageAdmin,
		EventLoginFailed: PageLogin,
	},
	PageMovies: {
		EventBookShow:    PageSeatSelection,
		EventViewHistory: PageBookingHistory,
		EventLogout:      PageLogin,
	},
	PageSeatSelection: {
		EventSeatsConfirmed:   PagePayment,
		EventValidationFailed: PageSeatSelection,
		EventContextMissing:   PageMovies,
	},
	PagePayment: {
		EventPaid:             PageBookingDetails,
		EventValidationFailed: PagePayment,
		EventContextMissing:   PageMovies,
	},
	PageBookingDetails: {
		EventAcknowledged:   PageMovies,
		EventContextMissing: PageMovies,
	},
	PageBookingHistory: {
		EventBackToMovies: PageMovies,
	},
	PageAdmin: {
		EventAdminAction: PageAdmin,
		EventLogout:      PageLogin,
	},
}

// Next returns the page that ev leads to from p.
func Next(p Page, ev Event) (Page, bool) {
	to, ok := transitions[p][ev]
	return to, ok
}
