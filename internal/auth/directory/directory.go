package directory

import (
	"context"
	"errors"

	"github.com/loomchat/loom/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("directory: user not found")
	ErrAlreadyExists = errors.New("directory: user already exists")
)

// NewUser is the payload for creating a directory entry. Password is the
// plaintext credential; implementations are responsible for hashing (local)
// or forwarding it to the owning service (remote).
type NewUser struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Directory is where user records live. The auth service is deliberately
// agnostic about whether that is its own sqlite file or a separate user
// service reached over HTTP.
type Directory interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)

	// Create adds a user and returns the stored record. Duplicate email or
	// username returns ErrAlreadyExists.
	Create(ctx context.Context, nu NewUser) (domain.User, error)

	// VerifyPassword checks a plaintext password against the stored
	// credential. A wrong password is (false, nil); errors are reserved
	// for lookup and transport failures.
	VerifyPassword(ctx context.Context, userID, password string) (bool, error)

	// SetPassword replaces the user's password.
	SetPassword(ctx context.Context, userID, password string) error

	// SetTwoFactor stores the TOTP secret and enabled flag together. An
	// empty secret with enabled=false clears the enrollment.
	SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error

	// SetEmailVerified marks the user's email address as verified.
	SetEmailVerified(ctx context.Context, userID string) error
}
