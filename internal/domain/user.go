package domain

import (
	"context"
	"time"
)

// User represents a registered account.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, passwordHash string, createdAt time.Time) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}
}

// MaxPasswordBytes is the longest password bcrypt can hash without truncating it.
const MaxPasswordBytes = 72

// Identity is the caller resolved from a session token.
// swagger:model Identity
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// PasswordHasher hashes and verifies passwords with a one-way, cost-parameterized function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues signed session tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the identity it carries.
// Verify returns ErrUnauthenticated for missing, malformed, tampered or expired tokens.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// UserRepository defines the interface for user storage.
// GetByEmail and GetByID return ErrNotFound when no user matches.
// Create returns ErrDuplicateEmail when the email is already taken.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// AuthService defines signup, signin and identity lookups.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (token string, user *User, err error)
	SignIn(ctx context.Context, email, password string) (token string, user *User, err error)
}
