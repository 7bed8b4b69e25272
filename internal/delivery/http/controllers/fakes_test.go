package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func withIdentity(r *http.Request, id, email string) *http.Request {
	return r.WithContext(middleware.SetIdentity(r.Context(), domain.Identity{ID: id, Email: email}))
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	token     string
	user      *domain.User
	err       error
	lastEmail string
	lastPass  string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPass = email, password
	return f.token, f.user, f.err
}

func (f *fakeAuthService) SignIn(_ context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPass = email, password
	return f.token, f.user, f.err
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	events       []*domain.Event
	event        *domain.Event
	err          error
	lastUpcoming bool
	lastID       string
	lastOwnerID  string
	lastCreate   *domain.Event
	lastUpdate   domain.EventUpdate
}

func (f *fakeEventService) ListEvents(_ context.Context, upcomingOnly bool) ([]*domain.Event, error) {
	f.lastUpcoming = upcomingOnly
	return f.events, f.err
}

func (f *fakeEventService) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) ListMyEvents(_ context.Context, ownerID string) ([]*domain.Event, error) {
	f.lastOwnerID = ownerID
	return f.events, f.err
}

func (f *fakeEventService) CreateEvent(_ context.Context, e *domain.Event) error {
	f.lastCreate = e
	if f.err != nil {
		return f.err
	}
	e.ID = "ev-new"
	return nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, id, ownerID string, u domain.EventUpdate) (*domain.Event, error) {
	f.lastID, f.lastOwnerID, f.lastUpdate = id, ownerID, u
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id, ownerID string) error {
	f.lastID, f.lastOwnerID = id, ownerID
	return f.err
}

// fakeBookingService implements domain.BookingService for handler tests.
type fakeBookingService struct {
	booking     *domain.Booking
	bookings    []*domain.Booking
	pdf         []byte
	err         error
	lastReq     domain.BookingRequest
	lastCaller  *domain.Identity
	lastEventID string
	lastOwnerID string
}

func (f *fakeBookingService) CreateBooking(_ context.Context, req domain.BookingRequest, caller *domain.Identity) (*domain.Booking, error) {
	f.lastReq, f.lastCaller = req, caller
	return f.booking, f.err
}

func (f *fakeBookingService) ListEventBookings(_ context.Context, eventID, ownerID string) ([]*domain.Booking, error) {
	f.lastEventID, f.lastOwnerID = eventID, ownerID
	return f.bookings, f.err
}

func (f *fakeBookingService) Ticket(_ context.Context, bookingID string) ([]byte, error) {
	f.lastEventID = bookingID
	return f.pdf, f.err
}
