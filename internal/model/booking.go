package model

import (
	"strconv"
	"strings"
)

// Booking records a user's reservation of a set of seat numbers for
// one show.  Seats are persisted as a comma-joined string; bookings
// are immutable once created.
type Booking struct {
	ID      uint64 // bookings.id
	UserID  uint64 // bookings.user_id
	MovieID uint64 // bookings.movie_id
	ShowID  uint64 // bookings.show_id
	Seats   []int  // bookings.seats (decoded)
}

// BookingHistoryEntry is one row of a user's booking history: the
// joined movie name and show time plus the seats string exactly as
// stored.
type BookingHistoryEntry struct {
	MovieName string `json:"movie_name"`
	ShowTime  string `json:"show_time"`
	Seats     string `json:"seats"`
}

// JoinSeats serializes seat numbers in their given order, e.g. [1 2] -> "1,2".
func JoinSeats(seats []int) string {
	parts := make([]string, len(seats))
	for i, s := range seats {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}
