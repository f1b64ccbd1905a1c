package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/bookmyshow/internal/model"
)

// Hasher produces the password digests stored for seeded users.
type Hasher interface {
	Hash(plain string) (string, error)
}

// movie_shows.movie_id is indexed but deliberately not constrained:
// shows may be added for a movie id that does not exist.  Usernames use a
// binary collation so "Bob" and "bob" are distinct accounts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(191) COLLATE utf8mb4_bin NOT NULL,
		password VARCHAR(255) NOT NULL,
		role ENUM('user','admin') NOT NULL DEFAULT 'user',
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		seats_available INT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movie_shows (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		movie_id BIGINT UNSIGNED NOT NULL,
		show_time VARCHAR(32) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		KEY idx_movie_shows_movie (movie_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		movie_id BIGINT UNSIGNED NOT NULL,
		show_id BIGINT UNSIGNED NOT NULL,
		seats VARCHAR(1024) NOT NULL,
		KEY idx_bookings_user (user_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_movie FOREIGN KEY (movie_id) REFERENCES movies(id),
		CONSTRAINT fk_bookings_show FOREIGN KEY (show_id) REFERENCES movie_shows(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

type seedUser struct {
	username, password string
	role               model.Role
}

var seedUsers = []seedUser{
	{"admin", "admin123", model.RoleAdmin},
	{"user1", "password1", model.RoleUser},
	{"user2", "password2", model.RoleUser},
}

var seedMovies = []model.Movie{
	{Name: "Inception", Description: "A mind-bending thriller by Christopher Nolan.", SeatsAvailable: 50},
	{Name: "The Dark Knight", Description: "A superhero crime thriller by Christopher Nolan.", SeatsAvailable: 40},
}

var seedShows = []model.Show{
	{MovieID: 1, ShowTime: "2024-11-18 18:00", Price: 12.50},
	{MovieID: 1, ShowTime: "2024-11-18 21:00", Price: 15.00},
	{MovieID: 2, ShowTime: "2024-11-18 19:00", Price: 10.00},
}

// InitSchema creates the four tables when absent and seeds each of users,
// movies and movie_shows only if that table has no rows.  Running it again
// against a populated database changes nothing.
func InitSchema(ctx context.Context, db *sql.DB, h Hasher) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	if err := seedIfEmpty(ctx, db, "users", func() error {
		for _, u := range seedUsers {
			digest, err := h.Hash(u.password)
			if err != nil {
				return err
			}
			if _, err := db.ExecContext(ctx,
				"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
				u.username, digest, u.role); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := seedIfEmpty(ctx, db, "movies", func() error {
		for _, m := range seedMovies {
			if _, err := db.ExecContext(ctx,
				"INSERT INTO movies (name, description, seats_available) VALUES (?, ?, ?)",
				m.Name, m.Description, m.SeatsAvailable); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return seedIfEmpty(ctx, db, "movie_shows", func() error {
		for _, s := range seedShows {
			if _, err := db.ExecContext(ctx,
				"INSERT INTO movie_shows (movie_id, show_time, price) VALUES (?, ?, ?)",
				s.MovieID, s.ShowTime, s.Price); err != nil {
				return err
			}
		}
		return nil
	})
}

// table is always one of the constant names above, never user input.
func seedIfEmpty(ctx context.Context, db *sql.DB, table string, seed func() error) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return fmt.Errorf("count %s: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	if err := seed(); err != nil {
		return fmt.Errorf("seed %s: %w", table, err)
	}
	return nil
}
