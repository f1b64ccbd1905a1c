package model

// Show represents a scheduled screening of a movie at a specific time
// and price.  ShowTime is stored as free text (e.g. "2024-11-18 18:00")
// and is never parsed; no overlap or capacity validation is done
// against the movie.
//
// Fields:
//  ID       – primary key identifier.
//  MovieID  – movie being screened (movie_shows.movie_id).
//  ShowTime – screening time as entered by the administrator.
//  Price    – price of a single seat.
type Show struct {
	ID       uint64  `json:"id"`        // movie_shows.id
	MovieID  uint64  `json:"movie_id"`  // movie_shows.movie_id
	ShowTime string  `json:"show_time"` // movie_shows.show_time
	Price    float64 `json:"price"`     // movie_shows.price
}
