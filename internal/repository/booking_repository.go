package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bookmyshow/internal/model"
)

// BookingRepo records bookings and reads a user's booking history.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Record writes one booking row and decrements movies.seats_available by
// len(seats) inside a single transaction.  The movie row is locked while
// the counter is checked, so two concurrent bookings cannot drive it
// below zero: the loser gets ErrInsufficientSeats and nothing is written.
// An unknown movie yields ErrMovieNotFound.
func (r *BookingRepo) Record(ctx context.Context, userID, movieID, showID uint64, seats []int) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin booking", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	id, err := r.RecordTx(ctx, tx, userID, movieID, showID, seats)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, storageErr("commit booking", err)
	}
	committed = true
	return id, nil
}

// RecordTx performs the booking writes within an existing transaction.
// The caller must commit or rollback.
func (r *BookingRepo) RecordTx(ctx context.Context, tx *sql.Tx, userID, movieID, showID uint64, seats []int) (uint64, error) {
	var available int
	err := tx.QueryRowContext(ctx,
		`SELECT seats_available FROM movies WHERE id = ? FOR UPDATE`, movieID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrMovieNotFound
	}
	if err != nil {
		return 0, storageErr("lock movie", err)
	}
	if len(seats) > available {
		return 0, ErrInsufficientSeats
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, movie_id, show_id, seats) VALUES (?, ?, ?, ?)`,
		userID, movieID, showID, model.JoinSeats(seats))
	if err != nil {
		return 0, storageErr("insert booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert booking", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE movies SET seats_available = seats_available - ? WHERE id = ?`,
		len(seats), movieID); err != nil {
		return 0, storageErr("decrement seats", err)
	}
	return uint64(id), nil
}

// History returns (movie name, show time, seats) for every booking made
// by userID, oldest first.  A user without bookings gets an empty slice.
func (r *BookingRepo) History(ctx context.Context, userID uint64) ([]model.BookingHistoryEntry, error) {
	const q = `
		SELECT m.name, s.show_time, b.seats
		FROM bookings b
		INNER JOIN movies m ON b.movie_id = m.id
		INNER JOIN movie_shows s ON b.show_id = s.id
		WHERE b.user_id = ?
		ORDER BY b.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, storageErr("booking history", err)
	}
	defer rows.Close()
	out := make([]model.BookingHistoryEntry, 0)
	for rows.Next() {
		var e model.BookingHistoryEntry
		if err := rows.Scan(&e.MovieName, &e.ShowTime, &e.Seats); err != nil {
			return nil, storageErr("booking history", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("booking history", err)
	}
	return out, nil
}
