package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bookmyshow/internal/model"
)

// ShowRepo provides access to the movie_shows table.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo returns a ShowRepo bound to db.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// Create inserts a show for movieID.  The movie is not looked up first and
// movie_shows.movie_id carries no foreign key, so a show can reference a
// movie that does not exist.
func (r *ShowRepo) Create(ctx context.Context, movieID uint64, showTime string, price float64) (uint64, error) {
	const q = `INSERT INTO movie_shows (movie_id, show_time, price) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, movieID, showTime, price)
	if err != nil {
		return 0, storageErr("create show", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("create show", err)
	}
	return uint64(id), nil
}

// ListForMovie returns the shows of movieID in insertion order.
func (r *ShowRepo) ListForMovie(ctx context.Context, movieID uint64) ([]model.Show, error) {
	const q = `SELECT id, movie_id, show_time, price FROM movie_shows WHERE movie_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, storageErr("list shows", err)
	}
	defer rows.Close()
	shows := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.MovieID, &s.ShowTime, &s.Price); err != nil {
			return nil, storageErr("list shows", err)
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list shows", err)
	}
	return shows, nil
}

// GetByID returns the show with the given id or ErrShowNotFound.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (model.Show, error) {
	const q = `SELECT id, movie_id, show_time, price FROM movie_shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.MovieID, &s.ShowTime, &s.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Show{}, ErrShowNotFound
	}
	if err != nil {
		return model.Show{}, storageErr("get show", err)
	}
	return s, nil
}
