package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/loomchat/loom/internal/auth/directory"
	"github.com/loomchat/loom/internal/auth/domain"
	"github.com/loomchat/loom/internal/auth/notify"
	"github.com/loomchat/loom/pkg/slogx"
)

// AuthService orchestrates the authentication flows across the directory,
// the token lifecycle and the second factor. It holds no state of its own.
type AuthService struct {
	Directory directory.Directory
	Tokens    *TokenService
	TwoFactor *TwoFactorService
	Notifier  notify.Notifier

	// FrontendURL is the base for links embedded in outgoing mail.
	FrontendURL string

	ResetTTL        time.Duration
	VerificationTTL time.Duration
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Register creates the account, emails a verification link and logs the new
// subject straight in. Mail delivery is best-effort: a failed send never
// rolls back the account or withholds the tokens.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.TokenPair, domain.User, error) {
	user, err := s.Directory.Create(ctx, directory.NewUser{
		Email:     strings.TrimSpace(in.Email),
		Username:  strings.TrimSpace(in.Username),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
	})
	if err != nil {
		if errors.Is(err, directory.ErrAlreadyExists) {
			return nil, domain.User{}, ErrAlreadyRegistered
		}
		return nil, domain.User{}, err
	}

	l := slogx.FromContext(ctx).With(slog.String("user_id", user.ID))

	if msg, err := notify.Welcome(user.Email, user.Username); err != nil {
		l.Error("render welcome email", slog.Any("error", err))
	} else if err := s.Notifier.Send(ctx, msg); err != nil {
		l.Error("send welcome email", slog.Any("error", err))
	}

	s.sendVerificationMail(ctx, user)

	pair, err := s.Tokens.IssueAuthTokens(ctx, user.ID, false)
	if err != nil {
		return nil, domain.User{}, err
	}
	return pair, user, nil
}

// Login checks the password and either issues tokens or, for 2FA-enabled
// subjects, withholds them and asks for the second factor. Unknown email,
// wrong password and deactivated account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	user, err := s.verifyPassword(ctx, email, password)
	if err != nil {
		return domain.LoginResult{}, err
	}

	if user.TwoFactorOn {
		return domain.LoginResult{User: user, Requires2FA: true}, nil
	}

	pair, err := s.Tokens.IssueAuthTokens(ctx, user.ID, false)
	if err != nil {
		return domain.LoginResult{}, err
	}
	return domain.LoginResult{Tokens: pair, User: user}, nil
}

// LoginWith2FA completes a 2FA-gated login: password plus a current TOTP
// code in a single call. The resulting access token carries a verified
// second factor.
func (s *AuthService) LoginWith2FA(ctx context.Context, email, password, code string) (domain.LoginResult, error) {
	user, err := s.verifyPassword(ctx, email, password)
	if err != nil {
		return domain.LoginResult{}, err
	}

	if err := s.TwoFactor.VerifyLogin(ctx, user, code); err != nil {
		return domain.LoginResult{}, err
	}

	pair, err := s.Tokens.IssueAuthTokens(ctx, user.ID, true)
	if err != nil {
		return domain.LoginResult{}, err
	}
	return domain.LoginResult{Tokens: pair, User: user}, nil
}

// RefreshToken exchanges a live refresh token for a new pair, revoking the
// presented value in the same transaction.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return s.Tokens.Refresh(ctx, refreshToken)
}

// Logout revokes the refresh token. Always succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Tokens.Logout(ctx, refreshToken)
}

// Generate2FA provisions a TOTP secret for the subject and mails the QR code.
func (s *AuthService) Generate2FA(ctx context.Context, userID string) (domain.TwoFactorEnrollment, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.TwoFactorEnrollment{}, err
	}

	enrollment, err := s.TwoFactor.Provision(ctx, user)
	if err != nil {
		return domain.TwoFactorEnrollment{}, err
	}

	l := slogx.FromContext(ctx).With(slog.String("user_id", user.ID))
	if msg, err := notify.TwoFactorEnrollment(user.Email, user.Username, enrollment.Secret, enrollment.QRCodePNG); err != nil {
		l.Error("render 2fa enrollment email", slog.Any("error", err))
	} else if err := s.Notifier.Send(ctx, msg); err != nil {
		l.Error("send 2fa enrollment email", slog.Any("error", err))
	}

	return enrollment, nil
}

// Verify2FA confirms the pending secret with a current code and enables 2FA.
func (s *AuthService) Verify2FA(ctx context.Context, userID, code string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.TwoFactor.Confirm(ctx, user, code)
}

// Disable2FA turns the second factor off after checking one final code.
func (s *AuthService) Disable2FA(ctx context.Context, userID, code string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.TwoFactor.Disable(ctx, user, code)
}

// RequestPasswordReset mints a single-use reset token and mails the link.
// The outcome is identical whether or not the address exists: no error, no
// response difference, and for unknown addresses no mail at all.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.Directory.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil
		}
		return err
	}

	opaque, err := s.Tokens.NewOwnedToken(ctx, user.ID, domain.TokenKindReset, s.ResetTTL)
	if err != nil {
		return err
	}

	l := slogx.FromContext(ctx).With(slog.String("user_id", user.ID))
	link := s.frontendLink("/reset-password", opaque)
	if msg, err := notify.PasswordReset(user.Email, user.Username, link); err != nil {
		l.Error("render password reset email", slog.Any("error", err))
	} else if err := s.Notifier.Send(ctx, msg); err != nil {
		l.Error("send password reset email", slog.Any("error", err))
	}
	return nil
}

// ResetPassword redeems a reset token, replaces the password and revokes
// every outstanding refresh token so stolen sessions die with the old
// password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	consumed, err := s.Tokens.ConsumeOwnedToken(ctx, token, domain.TokenKindReset)
	if err != nil {
		return err
	}

	if err := s.Directory.SetPassword(ctx, consumed.OwnerID, newPassword); err != nil {
		return err
	}

	revoked, err := s.Tokens.RevokeOwnerTokens(ctx, consumed.OwnerID, domain.TokenKindRefresh)
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("password reset completed",
		slog.String("user_id", consumed.OwnerID),
		slog.Int64("sessions_revoked", revoked),
	)
	return nil
}

// VerifyEmail redeems a verification token and marks the address verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	consumed, err := s.Tokens.ConsumeOwnedToken(ctx, token, domain.TokenKindVerification)
	if err != nil {
		return err
	}
	return s.Directory.SetEmailVerified(ctx, consumed.OwnerID)
}

// ResendVerificationEmail issues a fresh verification token, invalidating
// earlier ones. Unknown and already-verified addresses get the same silent
// success as real ones.
func (s *AuthService) ResendVerificationEmail(ctx context.Context, email string) error {
	user, err := s.Directory.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.EmailVerified {
		return nil
	}

	s.sendVerificationMail(ctx, user)
	return nil
}

func (s *AuthService) verifyPassword(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.Directory.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	ok, err := s.Directory.VerifyPassword(ctx, user.ID, password)
	if err != nil {
		return domain.User{}, err
	}
	if !ok || !user.Active {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) findUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Directory.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) sendVerificationMail(ctx context.Context, user domain.User) {
	l := slogx.FromContext(ctx).With(slog.String("user_id", user.ID))

	opaque, err := s.Tokens.NewOwnedToken(ctx, user.ID, domain.TokenKindVerification, s.VerificationTTL)
	if err != nil {
		l.Error("mint verification token", slog.Any("error", err))
		return
	}

	link := s.frontendLink("/verify-email", opaque)
	if msg, err := notify.EmailVerification(user.Email, user.Username, link); err != nil {
		l.Error("render verification email", slog.Any("error", err))
	} else if err := s.Notifier.Send(ctx, msg); err != nil {
		l.Error("send verification email", slog.Any("error", err))
	}
}

func (s *AuthService) frontendLink(path, token string) string {
	return strings.TrimSuffix(s.FrontendURL, "/") + path + "?token=" + url.QueryEscape(token)
}
