package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/loomchat/loom/internal/auth/domain"
	"github.com/loomchat/loom/internal/auth/store"
)

type tokensRepo struct {
	q querier
}

const tokenColumns = `id, owner_id, token_hash, kind, revoked, expires_at, created_at, updated_at`

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tokens (id, owner_id, token_hash, kind, revoked, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?)`,
		t.ID, t.OwnerID, t.TokenHash, string(t.Kind), t.ExpiresAt.UTC(), now, now,
	)
	return mapConstraint(err)
}

func (r *tokensRepo) GetValidTokenByHash(
	ctx context.Context,
	hash string,
	kind domain.TokenKind,
) (domain.Token, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE token_hash = ? AND kind = ? AND revoked = 0 AND expires_at > ?`,
		hash, string(kind), time.Now().UTC(),
	)
	return scanToken(row)
}

// ConsumeToken is the single-use primitive: the UPDATE only matches a live
// row, so of two concurrent consumers exactly one observes rows-affected == 1
// and the other gets ErrNotFound.
func (r *tokensRepo) ConsumeToken(
	ctx context.Context,
	hash string,
	kind domain.TokenKind,
) (domain.Token, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE tokens
		SET revoked = 1, updated_at = ?
		WHERE token_hash = ? AND kind = ? AND revoked = 0 AND expires_at > ?`,
		time.Now().UTC(), hash, string(kind), time.Now().UTC(),
	)
	if err != nil {
		return domain.Token{}, mapUnavailable(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Token{}, mapUnavailable(err)
	}
	if affected == 0 {
		return domain.Token{}, store.ErrNotFound
	}

	row := r.q.QueryRowContext(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE token_hash = ? AND kind = ?`,
		hash, string(kind),
	)
	return scanToken(row)
}

func (r *tokensRepo) RevokeToken(ctx context.Context, hash string, kind domain.TokenKind) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE tokens
		SET revoked = 1, updated_at = ?
		WHERE token_hash = ? AND kind = ? AND revoked = 0`,
		time.Now().UTC(), hash, string(kind),
	)
	return mapUnavailable(err)
}

func (r *tokensRepo) RevokeOwnerTokens(
	ctx context.Context,
	ownerID string,
	kind domain.TokenKind,
) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE tokens
		SET revoked = 1, updated_at = ?
		WHERE owner_id = ? AND kind = ? AND revoked = 0`,
		time.Now().UTC(), ownerID, string(kind),
	)
	if err != nil {
		return 0, mapUnavailable(err)
	}
	affected, err := res.RowsAffected()
	return affected, mapUnavailable(err)
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at <= ?`, time.Now().UTC())
	return mapUnavailable(err)
}

func scanToken(row *sql.Row) (domain.Token, error) {
	var t domain.Token
	var kind string
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.TokenHash, &kind,
		&t.Revoked, &t.ExpiresAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	t.Kind = domain.TokenKind(kind)
	return t, nil
}
