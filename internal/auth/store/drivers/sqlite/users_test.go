package sqlite

import (
	"context"
	"testing"

	"github.com/loomchat/loom/internal/auth/store"
	"github.com/loomchat/loom/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestUser(email, username string) store.UserRecord {
	u := store.UserRecord{PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"}
	u.ID = idx.New().String()
	u.Email = email
	u.Username = username
	u.FirstName = "Alice"
	u.LastName = "Smith"
	u.Active = true
	return u
}

func TestUsersCreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("Alice@Example.com", "alice")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email) // stored lowercased
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
	require.False(t, got.EmailVerified)
	require.False(t, got.TwoFactorOn)
	require.Empty(t, got.TwoFactorSecret)

	t.Run("lookup by email is case-insensitive", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "ALICE@example.COM")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersUniqueEmailAndUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Users().CreateUser(ctx, newTestUser("alice@example.com", "alice")))

	sameEmail := newTestUser("ALICE@example.com", "alice2")
	require.ErrorIs(t, s.Users().CreateUser(ctx, sameEmail), store.ErrAlreadyExists)

	sameUsername := newTestUser("other@example.com", "alice")
	require.ErrorIs(t, s.Users().CreateUser(ctx, sameUsername), store.ErrAlreadyExists)
}

func TestUsersUpdatePasswordHash(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("alice@example.com", "alice")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, idx.New().String(), "x"), store.ErrNotFound)
}

func TestUsersTwoFactorLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("alice@example.com", "alice")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	// Provision: secret stored, not enabled yet.
	require.NoError(t, s.Users().UpdateTwoFactor(ctx, u.ID, "JBSWY3DPEHPK3PXP", false))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "JBSWY3DPEHPK3PXP", got.TwoFactorSecret)
	require.False(t, got.TwoFactorOn)

	// Confirm.
	require.NoError(t, s.Users().UpdateTwoFactor(ctx, u.ID, "JBSWY3DPEHPK3PXP", true))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.TwoFactorOn)

	// Disable wipes the secret.
	require.NoError(t, s.Users().UpdateTwoFactor(ctx, u.ID, "", false))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.TwoFactorSecret)
	require.False(t, got.TwoFactorOn)

	require.ErrorIs(t, s.Users().UpdateTwoFactor(ctx, idx.New().String(), "s", true), store.ErrNotFound)
}

func TestUsersSetEmailVerified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	u := newTestUser("alice@example.com", "alice")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().SetEmailVerified(ctx, u.ID))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.EmailVerified)

	require.ErrorIs(t, s.Users().SetEmailVerified(ctx, idx.New().String()), store.ErrNotFound)
}
