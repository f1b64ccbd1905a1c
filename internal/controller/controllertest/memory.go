// Package controllertest provides an in-memory storage layer, seeded like a
// fresh database, for tests of the controllers and the HTTP handlers.
package controllertest

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/bookmyshow/internal/controller"
	"github.com/iliyamo/bookmyshow/internal/model"
	"github.com/iliyamo/bookmyshow/internal/payment"
	"github.com/iliyamo/bookmyshow/internal/queue"
	"github.com/iliyamo/bookmyshow/internal/repository"
	"github.com/iliyamo/bookmyshow/internal/utils"
)

// DB is the shared in-memory state behind the fake repos.
type DB struct {
	mu       sync.Mutex
	users    []model.User
	movies   []model.Movie
	shows    []model.Show
	bookings []model.Booking

	// Fail, when set, is returned by the next storage call instead of
	// running it.
	Fail error
}

// Fixture wires the fake repos into controller dependencies.
type Fixture struct {
	DB       *DB
	Hasher   utils.Hasher
	Users    *Users
	Movies   *Movies
	Shows    *Shows
	Bookings *Bookings
	Events   *Events
}

// NewSeeded returns a Fixture holding the same seed rows InitSchema writes:
// three users, two movies and three shows.
func NewSeeded() *Fixture {
	h := utils.NewHasher(bcrypt.MinCost)
	db := &DB{}
	for _, u := range []struct {
		name, pw string
		role     model.Role
	}{{"admin", "admin123", model.RoleAdmin}, {"user1", "password1", model.RoleUser}, {"user2", "password2", model.RoleUser}} {
		digest, err := h.Hash(u.pw)
		if err != nil {
			panic(err)
		}
		db.users = append(db.users, model.User{ID: uint64(len(db.users) + 1), Username: u.name, PasswordHash: digest, Role: u.role})
	}
	db.movies = []model.Movie{
		{ID: 1, Name: "Inception", Description: "A mind-bending thriller by Christopher Nolan.", SeatsAvailable: 50},
		{ID: 2, Name: "The Dark Knight", Description: "A superhero crime thriller by Christopher Nolan.", SeatsAvailable: 40},
	}
	db.shows = []model.Show{
		{ID: 1, MovieID: 1, ShowTime: "2024-11-18 18:00", Price: 12.50},
		{ID: 2, MovieID: 1, ShowTime: "2024-11-18 21:00", Price: 15.00},
		{ID: 3, MovieID: 2, ShowTime: "2024-11-18 19:00", Price: 10.00},
	}
	return &Fixture{
		DB:       db,
		Hasher:   h,
		Users:    &Users{db: db, hasher: h},
		Movies:   &Movies{db: db},
		Shows:    &Shows{db: db},
		Bookings: &Bookings{db: db},
		Events:   &Events{},
	}
}

// Deps returns controller dependencies backed by the fixture.
func (f *Fixture) Deps() controller.Deps {
	return controller.Deps{
		Users:     f.Users,
		Movies:    f.Movies,
		Shows:     f.Shows,
		Bookings:  f.Bookings,
		Passwords: f.Hasher,
		Payments:  payment.NewStub(),
		Events:    f.Events,
	}
}

// Controller returns a controller over the fixture.
func (f *Fixture) Controller() *controller.Controller { return controller.New(f.Deps()) }

// SetUserRole overwrites a stored role, bypassing the enum.
func (d *DB) SetUserRole(username string, role model.Role) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.users {
		if d.users[i].Username == username {
			d.users[i].Role = role
		}
	}
}

// SetSeats overwrites a movie's seats_available.
func (d *DB) SetSeats(movieID uint64, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.movies {
		if d.movies[i].ID == movieID {
			d.movies[i].SeatsAvailable = n
		}
	}
}

// Bookings returns a copy of every stored booking.
func (d *DB) Bookings() []model.Booking {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.bookings)
}

// Movie returns the stored movie with id.
func (d *DB) Movie(id uint64) (model.Movie, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.movies {
		if m.ID == id {
			return m, true
		}
	}
	return model.Movie{}, false
}

// Shows returns a copy of every stored show.
func (d *DB) Shows() []model.Show {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.shows)
}

// takeFail returns and clears the injected failure.  Callers hold mu.
func (d *DB) takeFail(op string) error {
	if d.Fail == nil {
		return nil
	}
	err := d.Fail
	d.Fail = nil
	return &repository.StorageError{Op: op, Err: err}
}

type Users struct {
	db     *DB
	hasher utils.Hasher
}

func (u *Users) FindByUsername(_ context.Context, username string) (model.User, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	if err := u.db.takeFail("find user"); err != nil {
		return model.User{}, err
	}
	for _, usr := range u.db.users {
		if usr.Username == username {
			return usr, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (u *Users) Create(_ context.Context, username, password string) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	if err := u.db.takeFail("create user"); err != nil {
		return err
	}
	for _, usr := range u.db.users {
		if usr.Username == username {
			return repository.ErrDuplicateUsername
		}
	}
	digest, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	u.db.users = append(u.db.users, model.User{ID: uint64(len(u.db.users) + 1), Username: username, PasswordHash: digest, Role: model.RoleUser})
	return nil
}

type Movies struct{ db *DB }

func (m *Movies) List(_ context.Context) ([]model.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.takeFail("list movies"); err != nil {
		return nil, err
	}
	return slices.Clone(m.db.movies), nil
}

func (m *Movies) GetByID(_ context.Context, id uint64) (model.Movie, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.takeFail("get movie"); err != nil {
		return model.Movie{}, err
	}
	for _, mv := range m.db.movies {
		if mv.ID == id {
			return mv, nil
		}
	}
	return model.Movie{}, repository.ErrMovieNotFound
}

func (m *Movies) Create(_ context.Context, name, description string, seats int) (uint64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.db.takeFail("create movie"); err != nil {
		return 0, err
	}
	id := uint64(len(m.db.movies) + 1)
	m.db.movies = append(m.db.movies, model.Movie{ID: id, Name: name, Description: description, SeatsAvailable: seats})
	return id, nil
}

type Shows struct{ db *DB }

func (s *Shows) Create(_ context.Context, movieID uint64, showTime string, price float64) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.takeFail("create show"); err != nil {
		return 0, err
	}
	id := uint64(len(s.db.shows) + 1)
	s.db.shows = append(s.db.shows, model.Show{ID: id, MovieID: movieID, ShowTime: showTime, Price: price})
	return id, nil
}

func (s *Shows) ListForMovie(_ context.Context, movieID uint64) ([]model.Show, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.takeFail("list shows"); err != nil {
		return nil, err
	}
	out := make([]model.Show, 0)
	for _, sh := range s.db.shows {
		if sh.MovieID == movieID {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *Shows) GetByID(_ context.Context, id uint64) (model.Show, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.takeFail("get show"); err != nil {
		return model.Show{}, err
	}
	for _, sh := range s.db.shows {
		if sh.ID == id {
			return sh, nil
		}
	}
	return model.Show{}, repository.ErrShowNotFound
}

type Bookings struct{ db *DB }

// Record mirrors BookingRepo.Record: check, insert and decrement happen
// under one lock, or not at all.
func (b *Bookings) Record(_ context.Context, userID, movieID, showID uint64, seats []int) (uint64, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	if err := b.db.takeFail("insert booking"); err != nil {
		return 0, err
	}
	idx := slices.IndexFunc(b.db.movies, func(m model.Movie) bool { return m.ID == movieID })
	if idx < 0 {
		return 0, repository.ErrMovieNotFound
	}
	if len(seats) > b.db.movies[idx].SeatsAvailable {
		return 0, repository.ErrInsufficientSeats
	}
	id := uint64(len(b.db.bookings) + 1)
	b.db.bookings = append(b.db.bookings, model.Booking{ID: id, UserID: userID, MovieID: movieID, ShowID: showID, Seats: slices.Clone(seats)})
	b.db.movies[idx].SeatsAvailable -= len(seats)
	return id, nil
}

func (b *Bookings) History(_ context.Context, userID uint64) ([]model.BookingHistoryEntry, error) {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	if err := b.db.takeFail("booking history"); err != nil {
		return nil, err
	}
	out := make([]model.BookingHistoryEntry, 0)
	for _, bk := range b.db.bookings {
		if bk.UserID != userID {
			continue
		}
		var name, showTime string
		for _, m := range b.db.movies {
			if m.ID == bk.MovieID {
				name = m.Name
			}
		}
		for _, s := range b.db.shows {
			if s.ID == bk.ShowID {
				showTime = s.ShowTime
			}
		}
		out = append(out, model.BookingHistoryEntry{MovieName: name, ShowTime: showTime, Seats: model.JoinSeats(bk.Seats)})
	}
	return out, nil
}

// Events records published booking events.
type Events struct {
	mu   sync.Mutex
	sent []queue.BookingConfirmedEvent
	Fail error
}

func (e *Events) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Fail != nil {
		return e.Fail
	}
	e.sent = append(e.sent, ev)
	return nil
}

// Sent returns the events published so far.
func (e *Events) Sent() []queue.BookingConfirmedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.sent)
}
