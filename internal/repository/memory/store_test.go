package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"eventbooking/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, s *Store, seats int, price int64) *domain.Event {
	t.Helper()
	e := domain.NewEvent("Gig", "", "Hall", time.Now().Add(24*time.Hour), seats, decimal.NewFromInt(price), "", "owner-1", time.Now())
	require.NoError(t, s.Events().Create(context.Background(), e))
	return e
}

func TestUserRepository_duplicate_email(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, domain.NewUser("a@example.com", "h", time.Now())))
	err := s.Users().Create(ctx, domain.NewUser("a@example.com", "h2", time.Now()))
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = s.Users().GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepository_Create_decrements_seats(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	e := seedEvent(t, s, 10, 20)

	b := domain.NewBooking(e.ID, nil, "Ann", "a@example.com", "1", 3, time.Now())
	require.NoError(t, s.Bookings().Create(ctx, b))
	assert.NotEmpty(t, b.ID)
	assert.True(t, decimal.NewFromInt(60).Equal(b.TotalAmount))

	got, err := s.Events().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.AvailableSeats)

	err = s.Bookings().Create(ctx, domain.NewBooking(e.ID, nil, "Bob", "b@example.com", "2", 8, time.Now()))
	require.ErrorIs(t, err, domain.ErrInsufficientCapacity)

	got, err = s.Events().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.AvailableSeats, "a rejected booking writes nothing")

	err = s.Bookings().Create(ctx, domain.NewBooking("missing", nil, "Bob", "b@example.com", "2", 1, time.Now()))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingRepository_Create_concurrent(t *testing.T) {
	tests := []struct {
		name     string
		seats    int
		bookers  int
		wantOK   int
		wantLeft int
	}{
		{"more bookers than seats", 5, 20, 5, 0},
		{"fewer bookers than seats", 50, 20, 20, 30},
		{"exactly full", 10, 10, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			ctx := context.Background()
			e := seedEvent(t, s, tt.seats, 1)

			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				ok       int
				rejected int
			)
			for i := 0; i < tt.bookers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := s.Bookings().Create(ctx, domain.NewBooking(e.ID, nil, "n", "e@example.com", "m", 1, time.Now()))
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						ok++
					} else {
						assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
						rejected++
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.bookers-tt.wantOK, rejected)
			got, err := s.Events().GetByID(ctx, e.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeft, got.AvailableSeats)

			bookings, err := s.Bookings().ListByEventID(ctx, e.ID)
			require.NoError(t, err)
			assert.Len(t, bookings, tt.wantOK)
		})
	}
}

func TestEventRepository_owner_scoping(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	e := seedEvent(t, s, 10, 5)
	title := "Renamed"

	_, err := s.Events().Update(ctx, e.ID, "intruder", domain.EventUpdate{Title: &title})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, s.Events().Delete(ctx, e.ID, "intruder"), domain.ErrNotFound)

	updated, err := s.Events().Update(ctx, e.ID, "owner-1", domain.EventUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	require.NoError(t, s.Events().Delete(ctx, e.ID, "owner-1"))
	_, err = s.Events().GetByID(ctx, e.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepository_List_orders_by_date(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Now()
	for _, d := range []time.Duration{72 * time.Hour, -24 * time.Hour, 24 * time.Hour} {
		e := domain.NewEvent("e", "", "l", now.Add(d), 1, decimal.Zero, "", "o", now)
		require.NoError(t, s.Events().Create(ctx, e))
	}

	all, err := s.Events().List(ctx, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.Before(all[1].Date))
	assert.True(t, all[1].Date.Before(all[2].Date))

	upcoming, err := s.Events().List(ctx, domain.EventFilter{From: &now})
	require.NoError(t, err)
	assert.Len(t, upcoming, 2)
}
