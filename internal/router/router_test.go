package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bookmyshow/internal/config"
	"github.com/iliyamo/bookmyshow/internal/controller"
	"github.com/iliyamo/bookmyshow/internal/controller/controllertest"
	"github.com/iliyamo/bookmyshow/internal/handler"
	"github.com/iliyamo/bookmyshow/internal/session"
)

type client struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func newServer(t *testing.T) (*controllertest.Fixture, *echo.Echo) {
	t.Helper()
	f := controllertest.NewSeeded()
	cfg := config.Config{SessionSecret: "router-test", SessionTTL: time.Hour}
	h := handler.NewHandler(cfg, f.Controller(), session.NewMemoryStore(time.Hour))

	e := echo.New()
	RegisterRoutes(e, nil)
	RegisterPages(e, h, config.RateLimitConfig{}, nil)
	return f, e
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, controller.View) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)

	var v controller.View
	if rec.Code != http.StatusNoContent && rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &v)
	}
	return rec, v
}

func start(t *testing.T, e *echo.Echo) *client {
	t.Helper()
	c := &client{t: t, e: e}
	rec, _ := c.do(http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var out struct {
		SessionID string `json:"session_id"`
		Session   struct {
			Token string `json:"token"`
		} `json:"session"`
		View controller.View `json:"view"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Session.Token)
	assert.Equal(t, session.PageLogin, out.View.Page)
	assert.Equal(t, "BookMyShow - Login/Signup", out.View.Title)
	c.token = out.Session.Token
	return c
}

func TestHealthAndMetrics(t *testing.T) {
	_, e := newServer(t)
	c := &client{t: t, e: e}
	rec, _ := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, _ = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingOverHTTP(t *testing.T) {
	f, e := newServer(t)
	c := start(t, e)

	rec, v := c.do(http.MethodPost, "/v1/login", echo.Map{"username": "user1", "password": "password1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PageMovies, v.Page)
	require.Len(t, v.Movies, 2)

	rec, v = c.do(http.MethodPost, "/v1/movies/1/shows/1/book", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PageSeatSelection, v.Page)

	rec, v = c.do(http.MethodPost, "/v1/seats", echo.Map{"seats": []int{1, 2}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PagePayment, v.Page)
	require.NotNil(t, v.Payment)
	assert.Equal(t, "$25.00", v.Payment.TotalText)

	rec, v = c.do(http.MethodPost, "/v1/payment", echo.Map{"method": "Credit Card"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PageBookingDetails, v.Page)
	require.NotNil(t, v.BookingDetails)
	assert.Equal(t, "Inception", v.BookingDetails.Movie)
	assert.Equal(t, "2024-11-18 18:00", v.BookingDetails.Show)
	assert.Equal(t, "1,2", v.BookingDetails.Seats)

	rec, v = c.do(http.MethodPost, "/v1/booking/ack", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PageMovies, v.Page)

	rec, v = c.do(http.MethodGet, "/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, v.History)
	require.Len(t, v.History.Bookings, 1)
	assert.Equal(t, "Inception", v.History.Bookings[0].MovieName)

	m, _ := f.DB.Movie(1)
	assert.Equal(t, 48, m.SeatsAvailable)
	assert.Len(t, f.Events.Sent(), 1)
}

func TestGuardedPageOverHTTP(t *testing.T) {
	f, e := newServer(t)
	c := start(t, e)
	c.do(http.MethodPost, "/v1/login", echo.Map{"username": "user1", "password": "password1"})

	rec, v := c.do(http.MethodPost, "/v1/navigate", echo.Map{"page": "payment"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, controller.KindMissingSessionContext, v.Kind)
	assert.Equal(t, session.PageMovies, v.Page)

	// the redirect was stored
	rec, v = c.do(http.MethodGet, "/v1/page", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PageMovies, v.Page)
	assert.Empty(t, f.DB.Bookings())
}

func TestErrorStatuses(t *testing.T) {
	_, e := newServer(t)
	c := start(t, e)

	rec, v := c.do(http.MethodPost, "/v1/login", echo.Map{"username": "ghost", "password": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found. Please check your credentials.", v.Error)

	rec, _ = c.do(http.MethodPost, "/v1/login", echo.Map{"username": "user1", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, v = c.do(http.MethodPost, "/v1/signup", echo.Map{"username": "user2", "password": "x"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, controller.KindDuplicateUsername, v.Kind)

	rec, _ = c.do(http.MethodGet, "/v1/page", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = c.do(http.MethodPost, "/v1/movies/x/shows/1/book", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	anon := &client{t: t, e: e}
	rec, _ = anon.do(http.MethodGet, "/v1/page", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	f, e := newServer(t)

	user := start(t, e)
	user.do(http.MethodPost, "/v1/login", echo.Map{"username": "user1", "password": "password1"})
	rec, _ := user.do(http.MethodPost, "/v1/admin/movies", echo.Map{"name": "X", "description": "Y", "seats_available": 5})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := start(t, e)
	rec, v := admin.do(http.MethodPost, "/v1/login", echo.Map{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PageAdmin, v.Page)

	rec, v = admin.do(http.MethodPost, "/v1/admin/movies", echo.Map{"name": "Tenet", "description": "Palindromes.", "seats_available": 30})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Movie added successfully!", v.Message)

	rec, v = admin.do(http.MethodPost, "/v1/admin/shows", echo.Map{"movie_id": 3, "show_time": "2024-12-01 20:00", "price": 11.0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Show added successfully!", v.Message)
	assert.Len(t, f.DB.Shows(), 4)

	rec, _ = admin.do(http.MethodPost, "/v1/admin/shows", echo.Map{"movie_id": 3, "show_time": "", "price": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, v = admin.do(http.MethodPost, "/v1/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PageLogin, v.Page)

	rec, _ = admin.do(http.MethodPost, "/v1/admin/movies", echo.Map{"name": "Z", "description": "Z", "seats_available": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEndSession(t *testing.T) {
	_, e := newServer(t)
	c := start(t, e)
	rec, _ := c.do(http.MethodDelete, "/v1/sessions", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = c.do(http.MethodGet, "/v1/page", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
