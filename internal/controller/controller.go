// Package controller implements one controller per page of the booking
// flow.  Each operation takes the visitor's session, the storage layer and
// the visitor's input, and returns the updated session plus the view of
// the page the visitor lands on.  Operations never modify the session
// they are given; on a storage failure that session is returned as-is.
package controller

import (
	"context"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/bookmyshow/internal/model"
	"github.com/iliyamo/bookmyshow/internal/queue"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Create(ctx context.Context, username, password string) error
}

type MovieStore interface {
	List(ctx context.Context) ([]model.Movie, error)
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
	Create(ctx context.Context, name, description string, seats int) (uint64, error)
}

type ShowStore interface {
	Create(ctx context.Context, movieID uint64, showTime string, price float64) (uint64, error)
	ListForMovie(ctx context.Context, movieID uint64) ([]model.Show, error)
	GetByID(ctx context.Context, id uint64) (model.Show, error)
}

type BookingStore interface {
	Record(ctx context.Context, userID, movieID, showID uint64, seats []int) (uint64, error)
	History(ctx context.Context, userID uint64) ([]model.BookingHistoryEntry, error)
}

// PasswordVerifier checks a plain password against a stored digest.
type PasswordVerifier interface {
	Verify(plain, digest string) bool
}

// PaymentGateway collects the booking total.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, method string) (string, error)
}

// EventPublisher announces paid bookings.  Failures are logged only.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// Deps bundles what the controllers need.  Events may be nil.
type Deps struct {
	Users     UserStore
	Movies    MovieStore
	Shows     ShowStore
	Bookings  BookingStore
	Passwords PasswordVerifier
	Payments  PaymentGateway
	Events    EventPublisher
}

type Controller struct {
	Deps
	validate *validator.Validate
}

func New(d Deps) *Controller {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return &Controller{Deps: d, validate: v}
}

// maxBytes is the byte-length counterpart of the "max" tag for strings.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
