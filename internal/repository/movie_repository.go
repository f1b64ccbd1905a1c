package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bookmyshow/internal/model"
)

// MovieRepo provides access to the movies table.  Movies are created by
// an administrator and never updated afterwards, except for the
// seats_available counter which BookingRepo decrements.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a MovieRepo bound to db.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// List returns every movie in insertion order.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, name, description, seats_available FROM movies ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storageErr("list movies", err)
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.SeatsAvailable); err != nil {
			return nil, storageErr("list movies", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list movies", err)
	}
	return movies, nil
}

// GetByID returns a single movie with its current seat count.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	const q = `SELECT id, name, description, seats_available FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name, &m.Description, &m.SeatsAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrMovieNotFound
	}
	if err != nil {
		return model.Movie{}, storageErr("get movie", err)
	}
	return m, nil
}

// Create inserts a movie and returns its generated ID.
func (r *MovieRepo) Create(ctx context.Context, name, description string, seats int) (uint64, error) {
	const q = `INSERT INTO movies (name, description, seats_available) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, name, description, seats)
	if err != nil {
		return 0, storageErr("create movie", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create movie", err)
	}
	return uint64(id), nil
}
