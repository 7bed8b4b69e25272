package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventbooking/internal/domain"

	"github.com/shopspring/decimal"
)

const bookingColumns = `id, event_id, user_id, name, email, mobile, quantity, total_amount, booking_date, status`

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{DB: db}
}

func scanBooking(s rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var userID sql.NullString
	err := s.Scan(
		&b.ID, &b.EventID, &userID, &b.Name, &b.Email, &b.Mobile,
		&b.Quantity, &b.TotalAmount, &b.BookingDate, &b.Status,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		b.UserID = &userID.String
	}
	return b, nil
}

// Create reserves seats with a single conditional decrement and inserts the booking in the
// same transaction. The WHERE clause makes the check and the write one statement, so two
// concurrent bookings can never both pass against the same remaining seats.
func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	var price decimal.Decimal
	err = tx.QueryRowContext(ctx, `
		UPDATE events
		SET available_seats = available_seats - $1
		WHERE id = $2 AND available_seats >= $1
		RETURNING price
	`, b.Quantity, b.EventID).Scan(&price)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reserve seats: %w", err)
		}
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, b.EventID).Scan(&exists); err != nil {
			return fmt.Errorf("probe event: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientCapacity
	}

	total, err := domain.PriceBooking(price, b.Quantity)
	if err != nil {
		return err
	}
	b.TotalAmount = total

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (event_id, user_id, name, email, mobile, quantity, total_amount, booking_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, b.EventID, b.UserID, b.Name, b.Email, b.Mobile, b.Quantity, b.TotalAmount, b.BookingDate, string(b.Status)).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE event_id = $1 ORDER BY booking_date DESC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		if isInvalidID(err) {
			return []*domain.Booking{}, nil
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
