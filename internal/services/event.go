package services

import (
	"context"
	"strings"
	"time"

	"eventbooking/internal/domain"

	"github.com/google/uuid"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// validID reports whether id is a well-formed UUID. Malformed ids can never match a row,
// so callers treat them as not found.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func (s *eventService) ListEvents(ctx context.Context, upcomingOnly bool) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var filter domain.EventFilter
	if upcomingOnly {
		now := s.now().UTC()
		filter.From = &now
	}
	return s.eventRepo.List(ctx, filter)
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.eventRepo.ListByOwnerID(ctx, ownerID)
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return domain.ErrUnauthenticated
	}
	event.Title = strings.TrimSpace(event.Title)
	event.Description = strings.TrimSpace(event.Description)
	event.Location = strings.TrimSpace(event.Location)
	if event.Title == "" || event.Description == "" || event.Location == "" || event.Date.IsZero() {
		return domain.Invalid("Missing required fields")
	}
	if event.TotalSeats <= 0 {
		return domain.Invalid("total_seats must be a positive integer")
	}
	if event.TotalSeats > domain.MaxSeats {
		return domain.Invalid("total_seats must not exceed %d", domain.MaxSeats)
	}
	if err := domain.ValidatePrice(event.Price); err != nil {
		return err
	}

	event.AvailableSeats = event.TotalSeats
	event.CreatedAt = s.now().UTC()
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) UpdateEvent(ctx context.Context, id, ownerID string, u domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	for _, field := range []*string{u.Title, u.Location} {
		if field != nil && strings.TrimSpace(*field) == "" {
			return nil, domain.Invalid("title and location cannot be empty")
		}
	}
	if u.Date != nil && u.Date.IsZero() {
		return nil, domain.Invalid("date cannot be empty")
	}
	return s.eventRepo.Update(ctx, id, ownerID, u)
}

func (s *eventService) DeleteEvent(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !validID(id) {
		return domain.ErrNotFound
	}
	return s.eventRepo.Delete(ctx, id, ownerID)
}
