// Package local implements the User Directory on the service's own database.
// It is used for single-binary deployments and in tests; clustered
// deployments point USER_SERVICE_URL at the remote directory instead.
package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/loomchat/loom/internal/auth/directory"
	"github.com/loomchat/loom/internal/auth/domain"
	"github.com/loomchat/loom/internal/auth/store"
	"github.com/loomchat/loom/pkg/cryptox"
	"github.com/loomchat/loom/pkg/idx"
)

type Directory struct {
	store store.Store
}

var _ directory.Directory = (*Directory)(nil)

func New(s store.Store) *Directory {
	return &Directory{store: s}
}

func (d *Directory) FindByID(ctx context.Context, id string) (domain.User, error) {
	rec, err := d.store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return rec.User, nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	rec, err := d.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return rec.User, nil
}

func (d *Directory) Create(ctx context.Context, nu directory.NewUser) (domain.User, error) {
	hash, err := cryptox.HashPassword(nu.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	rec := store.UserRecord{PasswordHash: hash}
	rec.ID = idx.New().String()
	rec.Email = nu.Email
	rec.Username = nu.Username
	rec.FirstName = nu.FirstName
	rec.LastName = nu.LastName
	rec.Active = true

	if err := d.store.Users().CreateUser(ctx, rec); err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	// Re-read so callers see the stored (normalised) record.
	stored, err := d.store.Users().GetUserByID(ctx, rec.ID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return stored.User, nil
}

func (d *Directory) VerifyPassword(ctx context.Context, userID, password string) (bool, error) {
	rec, err := d.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return false, mapStoreErr(err)
	}

	if err := cryptox.VerifyPassword(password, rec.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (d *Directory) SetPassword(ctx context.Context, userID, password string) error {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return mapStoreErr(d.store.Users().UpdatePasswordHash(ctx, userID, hash))
}

func (d *Directory) SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	return mapStoreErr(d.store.Users().UpdateTwoFactor(ctx, userID, secret, enabled))
}

func (d *Directory) SetEmailVerified(ctx context.Context, userID string) error {
	return mapStoreErr(d.store.Users().SetEmailVerified(ctx, userID))
}

func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return directory.ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return directory.ErrAlreadyExists
	}
	return err
}
