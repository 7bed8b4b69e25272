// Package memory is an in-process implementation of the repository ports, used for local
// runs without postgres (STORE=memory) and for service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"eventbooking/internal/domain"

	"github.com/google/uuid"
)

// Store holds users, events and bookings behind a single mutex. Every mutation happens
// under the lock, which makes the seat check and decrement of a booking atomic.
type Store struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	events   map[string]*domain.Event
	bookings map[string]*domain.Booking
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		events:   make(map[string]*domain.Event),
		bookings: make(map[string]*domain.Booking),
	}
}

func (s *Store) Users() domain.UserRepository       { return (*userRepository)(s) }
func (s *Store) Events() domain.EventRepository     { return (*eventRepository)(s) }
func (s *Store) Bookings() domain.BookingRepository { return (*bookingRepository)(s) }

type userRepository Store

func (r *userRepository) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type eventRepository Store

func (r *eventRepository) Create(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *eventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *eventRepository) List(_ context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	return r.collect(func(e *domain.Event) bool {
		return filter.From == nil || !e.Date.Before(*filter.From)
	}), nil
}

func (r *eventRepository) ListByOwnerID(_ context.Context, ownerID string) ([]*domain.Event, error) {
	return r.collect(func(e *domain.Event) bool { return e.OwnerID == ownerID }), nil
}

func (r *eventRepository) collect(keep func(*domain.Event) bool) []*domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Event, 0)
	for _, e := range r.events {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *eventRepository) Update(_ context.Context, id, ownerID string, u domain.EventUpdate) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *e
	if err := cp.Apply(u); err != nil {
		return nil, err
	}
	*e = cp
	return &cp, nil
}

func (r *eventRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

type bookingRepository Store

func (r *bookingRepository) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[b.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	if e.AvailableSeats < b.Quantity {
		return domain.ErrInsufficientCapacity
	}
	total, err := domain.PriceBooking(e.Price, b.Quantity)
	if err != nil {
		return err
	}
	e.AvailableSeats -= b.Quantity
	b.TotalAmount = total
	b.ID = uuid.NewString()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *bookingRepository) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *bookingRepository) ListByEventID(_ context.Context, eventID string) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.EventID == eventID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}
