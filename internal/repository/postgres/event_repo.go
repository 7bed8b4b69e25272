package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventbooking/internal/domain"
)

const eventColumns = `id, title, description, location, date, total_seats, available_seats, price, img, created_by, created_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := s.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.Date,
		&e.TotalSeats, &e.AvailableSeats, &e.Price, &e.Img, &e.OwnerID, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, date, total_seats, available_seats, price, img, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.Date, e.TotalSeats, e.AvailableSeats, e.Price, e.Img, e.OwnerID, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	if filter.From != nil {
		query := `SELECT ` + eventColumns + ` FROM events WHERE date >= $1 ORDER BY date ASC`
		return r.list(ctx, query, *filter.From)
	}
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC`
	return r.list(ctx, query)
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE created_by = $1 ORDER BY date ASC`
	return r.list(ctx, query, ownerID)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update locks the owner's event row, applies u and writes it back in one transaction.
// Concurrent bookings on the same row wait for the lock, so the booked count used for
// recomputing available seats cannot move underneath the edit.
func (r *eventRepository) Update(ctx context.Context, id, ownerID string, u domain.EventUpdate) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND created_by = $2 FOR UPDATE`
	e, err := scanEvent(tx.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}

	if err := e.Apply(u); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET title = $1, description = $2, location = $3, date = $4,
		    total_seats = $5, available_seats = $6, price = $7, img = $8
		WHERE id = $9
	`, e.Title, e.Description, e.Location, e.Date, e.TotalSeats, e.AvailableSeats, e.Price, e.Img, e.ID)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
