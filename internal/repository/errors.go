// Package repository defines the typed data access layer over the four
// tables (users, movies, movie_shows, bookings) together with the error
// values shared by every repo.  Handlers and controllers use these
// sentinels to tell expected failures apart from storage faults.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrUserNotFound is returned when no user has the requested username.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUsername is returned by UserRepo.Create when the unique
// index on users.username rejects the insert.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrMovieNotFound is returned when a movie lookup matches no row.
var ErrMovieNotFound = errors.New("movie not found")

// ErrShowNotFound is returned when a show lookup matches no row.
var ErrShowNotFound = errors.New("show not found")

// ErrInsufficientSeats is returned by BookingRepo.Record when the movie
// no longer has enough seats for the requested booking.  Nothing is
// written in that case.
var ErrInsufficientSeats = errors.New("insufficient seats")

// ErrStorage matches every *StorageError via errors.Is.
var ErrStorage = errors.New("storage error")

// StorageError wraps a driver failure that is not one of the expected
// outcomes above (connection loss, syntax errors, timeouts).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// MySQL error numbers the repos care about.
const (
	mysqlDuplicateEntry = 1062
)

// isDuplicateKey reports whether err is a unique constraint violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
