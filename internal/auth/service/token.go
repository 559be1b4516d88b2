package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/loomchat/loom/internal/auth/domain"
	"github.com/loomchat/loom/internal/auth/store"
	"github.com/loomchat/loom/pkg/cryptox"
	"github.com/loomchat/loom/pkg/idx"
	"github.com/loomchat/loom/pkg/jwtx"
	"github.com/loomchat/loom/pkg/slogx"
)

// TokenService owns the credential-token lifecycle: signed access tokens,
// rotating refresh tokens, and the single-use reset/verification values.
type TokenService struct {
	Signer jwtx.Signer
	Store  store.Store
	Issuer string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssueAuthTokens mints a fresh access/refresh pair for the subject. The
// refresh value is opaque to everyone including us: only its fingerprint is
// persisted.
func (s *TokenService) IssueAuthTokens(
	ctx context.Context,
	userID string,
	twoFactorVerified bool,
) (*domain.TokenPair, error) {
	now := time.Now()

	accessToken, err := s.Signer.Sign(jwtx.NewAccessClaims(userID, twoFactorVerified, s.AccessTTL, s.Issuer, now))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize320)
	if err != nil {
		return nil, err
	}

	refresh := domain.Token{
		ID:        idx.New().String(),
		OwnerID:   userID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		Kind:      domain.TokenKindRefresh,
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := s.Store.Tokens().CreateToken(ctx, refresh); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}

// Refresh rotates a refresh token: the presented value is atomically consumed
// and its replacement persisted in the same transaction. Of two concurrent
// refreshers presenting the same value, exactly one gets a new pair; the
// other sees ErrInvalidToken. Access tokens minted here never carry a
// verified second factor.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	now := time.Now()
	fp := cryptox.FingerprintToken(strings.TrimSpace(refreshOpaque))

	newOpaque, err := cryptox.GenerateToken(cryptox.TokenSize320)
	if err != nil {
		return nil, err
	}

	var old domain.Token
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		old, err = tx.Tokens().ConsumeToken(ctx, fp, domain.TokenKindRefresh)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		return tx.Tokens().CreateToken(ctx, domain.Token{
			ID:        idx.New().String(),
			OwnerID:   old.OwnerID,
			TokenHash: cryptox.FingerprintToken(newOpaque),
			Kind:      domain.TokenKindRefresh,
			ExpiresAt: now.Add(s.RefreshTTL),
		})
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := s.Signer.Sign(jwtx.NewAccessClaims(old.OwnerID, false, s.AccessTTL, s.Issuer, now))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}

// Logout revokes the presented refresh token. It is idempotent: an unknown,
// expired or already-revoked value still logs out successfully, so the
// operation leaks nothing about which values exist.
func (s *TokenService) Logout(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(strings.TrimSpace(refreshOpaque))
	return s.Store.Tokens().RevokeToken(ctx, fp, domain.TokenKindRefresh)
}

// NewOwnedToken mints a single-use opaque token of the given kind for the
// owner, revoking any still-live tokens of that kind first so only the most
// recently issued value works.
func (s *TokenService) NewOwnedToken(
	ctx context.Context,
	ownerID string,
	kind domain.TokenKind,
	ttl time.Duration,
) (string, error) {
	opaque, err := cryptox.GenerateToken(cryptox.TokenSize320)
	if err != nil {
		return "", err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		revoked, err := tx.Tokens().RevokeOwnerTokens(ctx, ownerID, kind)
		if err != nil {
			return err
		}
		if revoked > 0 {
			slogx.FromContext(ctx).Debug("superseded earlier tokens",
				slog.String("kind", string(kind)),
				slog.Int64("count", revoked),
			)
		}

		return tx.Tokens().CreateToken(ctx, domain.Token{
			ID:        idx.New().String(),
			OwnerID:   ownerID,
			TokenHash: cryptox.FingerprintToken(opaque),
			Kind:      kind,
			ExpiresAt: time.Now().Add(ttl),
		})
	})
	if err != nil {
		return "", err
	}
	return opaque, nil
}

// ConsumeOwnedToken redeems a single-use token, returning the consumed row so
// the caller learns the owner. Every failure mode (unknown, wrong kind,
// expired, already used) is ErrInvalidToken.
func (s *TokenService) ConsumeOwnedToken(
	ctx context.Context,
	opaque string,
	kind domain.TokenKind,
) (domain.Token, error) {
	fp := cryptox.FingerprintToken(strings.TrimSpace(opaque))

	tok, err := s.Store.Tokens().ConsumeToken(ctx, fp, kind)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Token{}, ErrInvalidToken
		}
		return domain.Token{}, err
	}
	return tok, nil
}

// RevokeOwnerTokens bulk-revokes every live token of one kind for the owner.
func (s *TokenService) RevokeOwnerTokens(
	ctx context.Context,
	ownerID string,
	kind domain.TokenKind,
) (int64, error) {
	return s.Store.Tokens().RevokeOwnerTokens(ctx, ownerID, kind)
}
