package domain

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Storage bounds: seat counts are 32-bit integers and money is NUMERIC(12,2).
const (
	MaxSeats   = math.MaxInt32
	PriceScale = 2
)

// MaxAmount is the largest price or booking total the store can hold.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ValidatePrice rejects prices the store would reject or round.
func ValidatePrice(p decimal.Decimal) error {
	switch {
	case p.IsNegative():
		return Invalid("price must be non-negative")
	case !p.Equal(p.Truncate(PriceScale)):
		return Invalid("price must have at most %d decimal places", PriceScale)
	case p.GreaterThan(MaxAmount):
		return Invalid("price must not exceed %s", MaxAmount.StringFixed(PriceScale))
	}
	return nil
}

// Event represents a ticketed event with a fixed seat pool.
// AvailableSeats stays within [0, TotalSeats].
// swagger:model Event
type Event struct {
	ID             string          `json:"_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	Date           time.Time       `json:"date"`
	TotalSeats     int             `json:"total_seats"`
	AvailableSeats int             `json:"available_seats"`
	Price          decimal.Decimal `json:"price" swaggertype:"number"`
	Img            string          `json:"img"`
	CreatedAt      time.Time       `json:"created_at"`
	OwnerID        string          `json:"created_by"`
}

// NewEvent returns a new Event with every seat available. ID is typically set by the repository on create.
func NewEvent(title, description, location string, date time.Time, totalSeats int, price decimal.Decimal, img, ownerID string, createdAt time.Time) *Event {
	return &Event{
		Title:          title,
		Description:    description,
		Location:       location,
		Date:           date,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		Price:          price,
		Img:            img,
		CreatedAt:      createdAt,
		OwnerID:        ownerID,
	}
}

// BookedSeats returns the number of seats consumed by bookings.
func (e *Event) BookedSeats() int {
	return e.TotalSeats - e.AvailableSeats
}

// EventUpdate carries the fields of a partial event edit. Nil fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Location    *string
	Date        *time.Time
	TotalSeats  *int
	Price       *decimal.Decimal
	Img         *string
}

// Apply writes the non-nil fields of u onto e. A capacity edit keeps already booked seats
// booked: available = newTotal - booked. Shrinking below the booked count fails with
// ErrInvalidInput and leaves e untouched.
func (e *Event) Apply(u EventUpdate) error {
	if u.TotalSeats != nil {
		if *u.TotalSeats < 0 {
			return Invalid("total_seats must be non-negative")
		}
		if *u.TotalSeats > MaxSeats {
			return Invalid("total_seats must not exceed %d", MaxSeats)
		}
		if booked := e.BookedSeats(); *u.TotalSeats < booked {
			return Invalid("total_seats cannot be less than booked seats (%d)", booked)
		}
	}
	if u.Price != nil {
		if err := ValidatePrice(*u.Price); err != nil {
			return err
		}
	}

	if u.TotalSeats != nil {
		booked := e.BookedSeats()
		e.TotalSeats = *u.TotalSeats
		e.AvailableSeats = *u.TotalSeats - booked
	}
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	if u.Price != nil {
		e.Price = *u.Price
	}
	if u.Img != nil {
		e.Img = *u.Img
	}
	return nil
}

// EventFilter narrows event listings. A nil From lists every event.
type EventFilter struct {
	From *time.Time
}

// EventRepository defines the interface for event storage.
// Owner-scoped operations return ErrNotFound both when the event is missing and when it
// belongs to someone else.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	Update(ctx context.Context, id, ownerID string, u EventUpdate) (*Event, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// EventService defines the event catalog operations.
type EventService interface {
	ListEvents(ctx context.Context, upcomingOnly bool) ([]*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListMyEvents(ctx context.Context, ownerID string) ([]*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, id, ownerID string, u EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, id, ownerID string) error
}
