package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"eventbooking/internal/domain"

	"github.com/shopspring/decimal"
)

// fakeHasher "hashes" by prefixing, and counts comparisons.
type fakeHasher struct {
	mu       sync.Mutex
	compares int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Compare(hash, password string) error {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokens struct {
	lastExpiry time.Duration
}

func (f *fakeTokens) Issue(userID, email string, expiry time.Duration) (string, error) {
	f.lastExpiry = expiry
	return fmt.Sprintf("token-for-%s", userID), nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(b *domain.Booking, e *domain.Event) ([]byte, error) {
	return []byte("%PDF " + b.ID + " " + e.Title), nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	created  int
	seats    int
	amount   decimal.Decimal
	rejected map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{rejected: make(map[string]int)}
}

func (r *fakeRecorder) BookingCreated(quantity int, amount decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
	r.seats += quantity
	r.amount = r.amount.Add(amount)
}

func (r *fakeRecorder) BookingRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[reason]++
}
