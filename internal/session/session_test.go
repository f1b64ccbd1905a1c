package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bookmyshow/internal/model"
)

func loggedIn(role model.Role) *Session {
	s := New("sid-1")
	s.User = &Identity{ID: 2, Username: "user1", Role: role}
	return s
}

func withBooking(s *Session) *Session {
	s.Movie = &model.Movie{ID: 1, Name: "Inception", SeatsAvailable: 48}
	s.Show = &model.Show{ID: 1, MovieID: 1, ShowTime: "2024-11-18 18:00", Price: 12.5}
	s.Seats = []int{1, 2}
	s.BookingID = 9
	s.Payment = &PaymentReceipt{Method: "Cash", Amount: 25}
	return s
}

func TestNewStartsOnLogin(t *testing.T) {
	s := New("abc")
	assert.Equal(t, PageLogin, s.Page)
	assert.Nil(t, s.User)
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from Page
		ev   Event
		to   Page
	}{
		{PageLogin, EventLoginUser, PageMovies},
		{PageLogin, EventLoginAdmin, PageAdmin},
		{PageLogin, EventLoginFailed, PageLogin},
		{PageMovies, EventBookShow, PageSeatSelection},
		{PageMovies, EventViewHistory, PageBookingHistory},
		{PageMovies, EventLogout, PageLogin},
		{PageSeatSelection, EventSeatsConfirmed, PagePayment},
		{PageSeatSelection, EventValidationFailed, PageSeatSelection},
		{PageSeatSelection, EventContextMissing, PageMovies},
		{PagePayment, EventPaid, PageBookingDetails},
		{PagePayment, EventValidationFailed, PagePayment},
		{PagePayment, EventContextMissing, PageMovies},
		{PageBookingDetails, EventAcknowledged, PageMovies},
		{PageBookingDetails, EventContextMissing, PageMovies},
		{PageBookingHistory, EventBackToMovies, PageMovies},
		{PageAdmin, EventAdminAction, PageAdmin},
		{PageAdmin, EventLogout, PageLogin},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"/"+string(tc.ev), func(t *testing.T) {
			s := loggedIn(model.RoleUser)
			s.Page = tc.from
			require.NoError(t, s.Fire(tc.ev))
			assert.Equal(t, tc.to, s.Page)
		})
	}
}

func TestFireRejectsUnknownEdge(t *testing.T) {
	s := loggedIn(model.RoleUser)
	s.Page = PageBookingHistory
	err := s.Fire(EventPaid)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
	assert.Equal(t, PageBookingHistory, s.Page)

	s.Page = PageLogin
	assert.ErrorIs(t, s.Fire(EventLogout), ErrTransitionNotAllowed)
}

func TestLogoutClearsEverything(t *testing.T) {
	s := withBooking(loggedIn(model.RoleUser))
	s.Page = PageMovies
	require.NoError(t, s.Fire(EventLogout))
	assert.Equal(t, &Session{ID: "sid-1", Page: PageLogin}, s)
}

func TestAcknowledgeClearsSelectionOnly(t *testing.T) {
	s := withBooking(loggedIn(model.RoleUser))
	s.Page = PageBookingDetails
	require.NoError(t, s.Fire(EventAcknowledged))
	assert.Equal(t, PageMovies, s.Page)
	assert.NotNil(t, s.User)
	assert.Nil(t, s.Movie)
	assert.Nil(t, s.Show)
	assert.Nil(t, s.Seats)
	assert.Nil(t, s.Payment)
	assert.Zero(t, s.BookingID)
}

func TestNavigate(t *testing.T) {
	anon := New("x")
	assert.ErrorIs(t, anon.Navigate(PageMovies), ErrNotAuthenticated)

	u := loggedIn(model.RoleUser)
	require.NoError(t, u.Navigate(PagePayment))
	assert.Equal(t, PagePayment, u.Page)
	assert.ErrorIs(t, u.Navigate(PageAdmin), ErrForbidden)
	assert.ErrorIs(t, u.Navigate(PageLogin), ErrTransitionNotAllowed)

	a := loggedIn(model.RoleAdmin)
	a.Page = PageAdmin
	assert.ErrorIs(t, a.Navigate(PageMovies), ErrForbidden)
	require.NoError(t, a.Navigate(PageAdmin))
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage("seat_selection")
	require.NoError(t, err)
	assert.Equal(t, PageSeatSelection, p)
	_, err = ParsePage("checkout")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestIsPaidNeedsReceipt(t *testing.T) {
	s := withBooking(loggedIn(model.RoleUser))
	assert.True(t, s.IsPaid())
	s.Payment = nil
	assert.True(t, s.HasBooking())
	assert.False(t, s.IsPaid())
}

func TestCloneIsDeep(t *testing.T) {
	s := withBooking(loggedIn(model.RoleUser))
	c := s.Clone()
	c.Seats[0] = 99
	c.Movie.SeatsAvailable = 0
	c.User.Username = "other"
	assert.Equal(t, 1, s.Seats[0])
	assert.Equal(t, 48, s.Movie.SeatsAvailable)
	assert.Equal(t, "user1", s.User.Username)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Minute)
	now := time.Date(2024, 11, 18, 18, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := loggedIn(model.RoleUser)
	require.NoError(t, m.Save(ctx, s))

	got, err := m.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, s, got)
	got.Page = PageAdmin
	again, _ := m.Get(ctx, "sid-1")
	assert.Equal(t, PageLogin, again.Page)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(0)
	require.NoError(t, m.Save(ctx, New("a")))
	require.NoError(t, m.Delete(ctx, "a"))
	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewRedisStore(rdb, 30*time.Minute, "")
	ctx := context.Background()

	s := withBooking(loggedIn(model.RoleUser))
	s.Page = PagePayment
	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists("session:sid-1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:sid-1"))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	mr.FastForward(31 * time.Minute)
	_, err = store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewRedisStore(rdb, time.Hour, "bms")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, New("gone")))
	require.NoError(t, store.Delete(ctx, "gone"))
	_, err := store.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
