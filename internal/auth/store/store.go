package store

import (
	"context"
	"errors"

	"github.com/loomchat/loom/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrUnavailable marks a backend outage (connection lost, database
	// locked or closed). Unlike every other error in this package the
	// failed operation did not observe committed state, so callers may
	// safely retry.
	ErrUnavailable = errors.New("store: storage unavailable")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Tokens() Tokens
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Use it for
	// multi-step operations that must be atomic (e.g. refresh rotation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Tokens persists credential tokens: refresh, password-reset and
// email-verification values, stored by fingerprint.
type Tokens interface {
	// CreateToken inserts a new token row. A fingerprint collision (the
	// hash column is unique across all kinds) returns ErrAlreadyExists.
	CreateToken(ctx context.Context, t domain.Token) error

	// GetValidTokenByHash returns the token only when the kind matches,
	// it is not revoked and it has not expired. Everything else is
	// ErrNotFound; callers must not learn which check failed.
	GetValidTokenByHash(ctx context.Context, hash string, kind domain.TokenKind) (domain.Token, error)

	// ConsumeToken atomically revokes a live token and returns it. Two
	// concurrent consumers of the same value see exactly one success;
	// the loser gets ErrNotFound. This is the single-use primitive for
	// refresh rotation and reset/verification consumption.
	ConsumeToken(ctx context.Context, hash string, kind domain.TokenKind) (domain.Token, error)

	// RevokeToken flips revoked=1. Idempotent: revoking an already
	// revoked or unknown token is not an error.
	RevokeToken(ctx context.Context, hash string, kind domain.TokenKind) error

	// RevokeOwnerTokens bulk-revokes every live token of one kind for an
	// owner (e.g. all refresh tokens after a password reset). Returns the
	// number of rows revoked.
	RevokeOwnerTokens(ctx context.Context, ownerID string, kind domain.TokenKind) (int64, error)

	// DeleteExpiredTokens is housekeeping. Expired rows already fail
	// GetValidTokenByHash by timestamp comparison; deletion only bounds
	// table growth.
	DeleteExpiredTokens(ctx context.Context) error
}

// UserRecord is a directory row including the password hash. The hash never
// leaves the directory implementations; domain.User is what the rest of the
// service sees.
type UserRecord struct {
	domain.User
	PasswordHash string
}

// Users is the storage behind the embedded local User Directory. Remote
// deployments talk to the user service instead and never touch this repo.
type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (UserRecord, error)

	// GetUserByEmail returns a user by email (case-insensitive).
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)

	// CreateUser inserts a new user. Duplicate email or username returns
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u UserRecord) error

	// UpdatePasswordHash sets the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// UpdateTwoFactor sets the TOTP secret and enabled flag together so
	// provision/confirm/disable are each a single write.
	UpdateTwoFactor(ctx context.Context, userID, secret string, enabled bool) error

	// SetEmailVerified marks the user's email address as verified.
	SetEmailVerified(ctx context.Context, userID string) error
}
