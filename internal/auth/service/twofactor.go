package service

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/loomchat/loom/internal/auth/directory"
	"github.com/loomchat/loom/internal/auth/domain"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const qrCodeSize = 200 // px, both dimensions

// TwoFactorService manages TOTP enrollment and verification. Secrets live on
// the directory record; this service never persists anything itself.
type TwoFactorService struct {
	Directory directory.Directory
	Issuer    string // app name shown in authenticator apps
}

// Provision generates a TOTP secret for the user and stores it unconfirmed.
// 2FA is not enabled until Confirm sees a valid code; re-provisioning before
// confirmation simply replaces the pending secret.
func (s *TwoFactorService) Provision(ctx context.Context, user domain.User) (domain.TwoFactorEnrollment, error) {
	if user.TwoFactorOn {
		return domain.TwoFactorEnrollment{}, ErrTwoFactorEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.Directory.SetTwoFactor(ctx, user.ID, key.Secret(), false); err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("store totp secret: %w", err)
	}

	qr, err := renderQRCode(key)
	if err != nil {
		return domain.TwoFactorEnrollment{}, err
	}

	return domain.TwoFactorEnrollment{
		Secret:     key.Secret(),
		OtpauthURL: key.URL(),
		QRCodePNG:  qr,
		Issuer:     s.Issuer,
		Account:    user.Email,
	}, nil
}

// Confirm validates a code against the pending secret and enables 2FA. Codes
// are accepted within one 30s step of clock skew either way.
func (s *TwoFactorService) Confirm(ctx context.Context, user domain.User, code string) error {
	if user.TwoFactorOn {
		return ErrTwoFactorEnabled
	}
	if !user.TwoFactorProvisioned() {
		return ErrTwoFactorNotProvisioned
	}

	if !totp.Validate(code, user.TwoFactorSecret) {
		return ErrInvalidTOTPCode
	}

	return s.Directory.SetTwoFactor(ctx, user.ID, user.TwoFactorSecret, true)
}

// VerifyLogin checks a code for a 2FA-enabled subject without changing any
// state. Used by the second login step.
func (s *TwoFactorService) VerifyLogin(ctx context.Context, user domain.User, code string) error {
	if !user.TwoFactorOn || !user.TwoFactorProvisioned() {
		return ErrTwoFactorNotEnabled
	}
	if !totp.Validate(code, user.TwoFactorSecret) {
		return ErrInvalidTOTPCode
	}
	return nil
}

// Disable removes the secret and flag after proving possession of the second
// factor one last time.
func (s *TwoFactorService) Disable(ctx context.Context, user domain.User, code string) error {
	if err := s.VerifyLogin(ctx, user, code); err != nil {
		return err
	}
	return s.Directory.SetTwoFactor(ctx, user.ID, "", false)
}

func renderQRCode(key *otp.Key) ([]byte, error) {
	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return buf.Bytes(), nil
}
