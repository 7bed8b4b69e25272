package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a seat purchase against an event. UserID is nil for anonymous bookings.
// swagger:model Booking
type Booking struct {
	ID          string          `json:"_id"`
	EventID     string          `json:"event_id"`
	UserID      *string         `json:"user_id,omitempty"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Mobile      string          `json:"mobile"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount" swaggertype:"number"`
	BookingDate time.Time       `json:"booking_date"`
	Status      BookingStatus   `json:"status"`
}

// NewBooking returns a confirmed booking. TotalAmount and ID are set by the repository,
// which prices the booking against the event row it decrements.
func NewBooking(eventID string, userID *string, name, email, mobile string, quantity int, bookingDate time.Time) *Booking {
	return &Booking{
		EventID:     eventID,
		UserID:      userID,
		Name:        name,
		Email:       email,
		Mobile:      mobile,
		Quantity:    quantity,
		BookingDate: bookingDate,
		Status:      BookingStatusConfirmed,
	}
}

// TotalAmount prices quantity seats at the given unit price without rounding.
func TotalAmount(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// PriceBooking returns the total for quantity seats at price, or a ValidationError when
// the total is larger than MaxAmount.
func PriceBooking(price decimal.Decimal, quantity int) (decimal.Decimal, error) {
	total := TotalAmount(price, quantity)
	if total.GreaterThan(MaxAmount) {
		return decimal.Zero, Invalid("booking total must not exceed %s", MaxAmount.StringFixed(PriceScale))
	}
	return total, nil
}

// BookingRequest is the input of the booking workflow.
type BookingRequest struct {
	EventID  string
	Name     string
	Email    string
	Mobile   string
	Quantity int
}

// BookingRepository defines the interface for booking storage.
type BookingRepository interface {
	// Create decrements the event's available seats by b.Quantity only if enough remain,
	// prices b at the event's current price and inserts it, all atomically. It returns
	// ErrNotFound for a missing event and ErrInsufficientCapacity when seats run short;
	// in both cases nothing is written.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
}

// TicketRenderer renders a printable ticket for a booking.
type TicketRenderer interface {
	Render(b *Booking, e *Event) ([]byte, error)
}

// BookingService defines the booking workflow and ledger queries.
type BookingService interface {
	CreateBooking(ctx context.Context, req BookingRequest, caller *Identity) (*Booking, error)
	ListEventBookings(ctx context.Context, eventID, ownerID string) ([]*Booking, error)
	Ticket(ctx context.Context, bookingID string) ([]byte, error)
}

// BookingRecorder observes booking outcomes (e.g. metrics).
type BookingRecorder interface {
	BookingCreated(quantity int, amount decimal.Decimal)
	BookingRejected(reason string)
}
