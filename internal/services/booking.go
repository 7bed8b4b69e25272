package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventbooking/internal/domain"

	"github.com/shopspring/decimal"
)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	tickets        domain.TicketRenderer
	recorder       domain.BookingRecorder
	contextTimeout time.Duration
	now            func() time.Time
}

// NewBookingService wires the booking workflow. recorder may be nil.
func NewBookingService(bookingRepo domain.BookingRepository, eventRepo domain.EventRepository, tickets domain.TicketRenderer, recorder domain.BookingRecorder, timeout time.Duration) domain.BookingService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		tickets:        tickets,
		recorder:       recorder,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req domain.BookingRequest, caller *domain.Identity) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	req.EventID = strings.TrimSpace(req.EventID)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Mobile = strings.TrimSpace(req.Mobile)
	if req.EventID == "" || req.Name == "" || req.Email == "" || req.Mobile == "" || req.Quantity == 0 {
		s.recorder.BookingRejected("invalid_input")
		return nil, domain.Invalid("Missing required fields")
	}
	if req.Quantity < 0 {
		s.recorder.BookingRejected("invalid_input")
		return nil, domain.Invalid("quantity must be a positive integer")
	}
	if !validID(req.EventID) {
		s.recorder.BookingRejected("event_not_found")
		return nil, domain.ErrNotFound
	}
	if req.Quantity > domain.MaxSeats {
		// No event can hold this many seats.
		if _, err := s.eventRepo.GetByID(ctx, req.EventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.recorder.BookingRejected("event_not_found")
			} else {
				s.recorder.BookingRejected("error")
			}
			return nil, err
		}
		s.recorder.BookingRejected("insufficient_capacity")
		return nil, domain.ErrInsufficientCapacity
	}

	var userID *string
	if caller != nil && caller.ID != "" {
		id := caller.ID
		userID = &id
	}

	b := domain.NewBooking(req.EventID, userID, req.Name, req.Email, req.Mobile, req.Quantity, s.now().UTC())
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientCapacity):
			s.recorder.BookingRejected("insufficient_capacity")
		case errors.Is(err, domain.ErrNotFound):
			s.recorder.BookingRejected("event_not_found")
		case errors.Is(err, domain.ErrInvalidInput):
			s.recorder.BookingRejected("invalid_input")
		default:
			s.recorder.BookingRejected("error")
		}
		return nil, err
	}
	s.recorder.BookingCreated(b.Quantity, b.TotalAmount)
	return b, nil
}

// ListEventBookings returns the bookings of an event owned by ownerID. A missing event and
// one owned by someone else both yield ErrNotFound.
func (s *bookingService) ListEventBookings(ctx context.Context, eventID, ownerID string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !validID(eventID) {
		return nil, domain.ErrNotFound
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return s.bookingRepo.ListByEventID(ctx, eventID)
}

func (s *bookingService) Ticket(ctx context.Context, bookingID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !validID(bookingID) {
		return nil, domain.ErrNotFound
	}
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, b.EventID)
	if err != nil {
		return nil, err
	}
	return s.tickets.Render(b, event)
}

type noopRecorder struct{}

func (noopRecorder) BookingCreated(int, decimal.Decimal) {}
func (noopRecorder) BookingRejected(string)              {}
