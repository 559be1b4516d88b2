package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/loomchat/loom/internal/auth/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, email, username, first_name, last_name, password_hash,
	active, email_verified, twofa_secret, twofa_enabled, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (store.UserRecord, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (store.UserRecord, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(email))
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u store.UserRecord) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, email, username, first_name, last_name, password_hash,
			active, email_verified, twofa_secret, twofa_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, strings.ToLower(u.Email), u.Username, u.FirstName, u.LastName, u.PasswordHash,
		u.Active, u.EmailVerified, mapStringNull(u.TwoFactorSecret), u.TwoFactorOn, now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.updateOne(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdateTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	return r.updateOne(ctx, `
		UPDATE users SET twofa_secret = ?, twofa_enabled = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(secret), enabled, time.Now().UTC(), userID)
}

func (r *usersRepo) SetEmailVerified(ctx context.Context, userID string) error {
	return r.updateOne(ctx, `
		UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapUnavailable(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapUnavailable(err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (store.UserRecord, error) {
	var u store.UserRecord
	var secret sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.Active, &u.EmailVerified, &secret, &u.TwoFactorOn, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return store.UserRecord{}, mapNotFound(err)
	}
	if secret.Valid {
		u.TwoFactorSecret = secret.String
	}
	return u, nil
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
