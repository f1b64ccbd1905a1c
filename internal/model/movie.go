package model

// Movie represents a row in the `movies` table.  SeatsAvailable is a
// denormalized running total that is decremented whenever a booking
// is recorded.
type Movie struct {
	ID             uint64 `json:"id"`              // movies.id
	Name           string `json:"name"`            // movies.name
	Description    string `json:"description"`     // movies.description
	SeatsAvailable int    `json:"seats_available"` // movies.seats_available
}
