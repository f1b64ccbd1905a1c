// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedQueue is the durable queue booking events travel on.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published once a booking has been paid for.
// It carries enough to log or notify without querying the database.
type BookingConfirmedEvent struct {
	BookingID     uint64  `json:"booking_id"`
	UserID        uint64  `json:"user_id"`
	Username      string  `json:"username"`
	MovieID       uint64  `json:"movie_id"`
	MovieName     string  `json:"movie_name"`
	ShowID        uint64  `json:"show_id"`
	ShowTime      string  `json:"show_time"`
	Seats         []int   `json:"seats"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentRef    string  `json:"payment_ref"`
	ConfirmedAt   string  `json:"confirmed_at"`
}
