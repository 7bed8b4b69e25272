package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventbooking/internal/adapters/auth"
	"eventbooking/internal/adapters/ticket"
	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/repository/memory"
	"eventbooking/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWith(t, nil, false)
}

func newTestServerWith(t *testing.T, limiter middleware.RateLimiter, trustProxy bool) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	tokens := auth.NewJWTService("test-secret")

	authSvc := services.NewAuthService(store.Users(), auth.NewBcryptHasher(bcrypt.MinCost), tokens, time.Hour, 5*time.Second)
	eventSvc := services.NewEventService(store.Events(), 5*time.Second)
	bookingSvc := services.NewBookingService(store.Bookings(), store.Events(), ticket.NewPDFRenderer(), nil, 5*time.Second)

	return &testServer{t: t, handler: NewRouter(RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		AllowedOrigins: []string{"http://localhost:5173"},
		Limiter:        limiter,
		TrustProxy:     trustProxy,
		Auth:           controllers.NewAuthController(logger, authSvc),
		Events:         controllers.NewEventController(logger, eventSvc),
		Bookings:       controllers.NewBookingController(logger, bookingSvc),
	})}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func (s *testServer) signup(email string) string {
	rec := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": email, "password": "pw"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[controllers.AuthResponse](s.t, rec).Token
}

func TestRouter_health(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Event Booking API is running"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_auth_flow(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("Alice@Example.com")

	rec := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "alice@example.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"User already exists"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "long@example.com", "password": strings.Repeat("p", 80)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"password must be at most 72 bytes"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/signin", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	wrongPassword := rec.Body.String()

	rec = s.do(http.MethodPost, "/api/auth/signin", "", map[string]string{"email": "ghost@example.com", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, wrongPassword, rec.Body.String(), "unknown email and wrong password are indistinguishable")

	rec = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[controllers.MeResponse](t, rec)
	assert.Equal(t, "alice@example.com", me.User.Email)

	rec = s.do(http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/signout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_booking_flow(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("owner@example.com")
	other := s.signup("other@example.com")

	rec := s.do(http.MethodPost, "/api/events", owner, map[string]any{
		"title": "Gig", "description": "Live", "location": "Hall", "date": "2099-01-01",
		"total_seats": 10, "price": 20,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decode[map[string]any](t, rec)
	id := event["_id"].(string)
	assert.Equal(t, float64(10), event["available_seats"])

	book := func(token string, qty int) *httptest.ResponseRecorder {
		return s.do(http.MethodPost, "/api/bookings", token, map[string]any{
			"event_id": id, "name": "Ann", "email": "ann@example.com", "mobile": "555", "quantity": qty,
		})
	}

	rec = book(other, 3)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booking := decode[map[string]any](t, rec)
	assert.Equal(t, float64(60), booking["total_amount"])
	assert.NotEmpty(t, booking["user_id"])

	rec = book("", 8)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Not enough seats available"}`, rec.Body.String())

	rec = book("not-a-valid-token", 7)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, decode[map[string]any](t, rec), "user_id")

	rec = s.do(http.MethodGet, "/api/events/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decode[map[string]any](t, rec)["available_seats"])

	rec = s.do(http.MethodGet, "/api/bookings/event/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Event not found or unauthorized"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/bookings/event/"+id, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = s.do(http.MethodGet, "/api/bookings/"+booking["_id"].(string)+"/ticket", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = s.do(http.MethodPut, "/api/events/"+id, owner, map[string]any{"total_seats": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"total_seats cannot be less than booked seats (10)"}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/api/events/"+id, owner, map[string]any{"total_seats": 15})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/events/user/my-events", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]map[string]any](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, float64(5), mine[0]["available_seats"])

	rec = s.do(http.MethodDelete, "/api/events/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/events/"+id, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/events/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Event not found"}`, rec.Body.String())
}

func TestRouter_requires_auth_for_writes(t *testing.T) {
	s := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/events"},
		{http.MethodPut, "/api/events/6f1c2a7e-2b7b-4a53-9a55-0d2b3c4d5e6f"},
		{http.MethodDelete, "/api/events/6f1c2a7e-2b7b-4a53-9a55-0d2b3c4d5e6f"},
		{http.MethodGet, "/api/events/user/my-events"},
		{http.MethodGet, "/api/bookings/event/6f1c2a7e-2b7b-4a53-9a55-0d2b3c4d5e6f"},
	} {
		rec := s.do(tc.method, tc.path, "", map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_cors_preflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

// keyRecorder allows everything and remembers the keys it was asked about.
type keyRecorder struct {
	keys []string
}

func (k *keyRecorder) Allow(_ context.Context, key string) (bool, error) {
	k.keys = append(k.keys, key)
	return true, nil
}

func TestRouter_rate_limit_key(t *testing.T) {
	signin := func(s *testServer, forwarded string) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(`{"email":"a@example.com","password":"pw"}`))
		req.RemoteAddr = "203.0.113.7:51000"
		req.Header.Set("X-Forwarded-For", forwarded)
		s.handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	t.Run("forwarded headers ignored by default", func(t *testing.T) {
		limiter := &keyRecorder{}
		s := newTestServerWith(t, limiter, false)
		signin(s, "198.51.100.1")
		signin(s, "198.51.100.2")
		assert.Equal(t, []string{"203.0.113.7", "203.0.113.7"}, limiter.keys)
	})

	t.Run("forwarded headers honored behind a trusted proxy", func(t *testing.T) {
		limiter := &keyRecorder{}
		s := newTestServerWith(t, limiter, true)
		signin(s, "198.51.100.1")
		assert.Equal(t, []string{"198.51.100.1"}, limiter.keys)
	})
}
