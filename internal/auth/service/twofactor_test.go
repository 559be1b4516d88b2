package service

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func totpCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

// enableTwoFactor walks a user through provision + confirm and returns the
// TOTP secret.
func enableTwoFactor(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	ctx := context.Background()

	enrollment, err := env.Auth.Generate2FA(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, env.Auth.Verify2FA(ctx, userID, totpCode(t, enrollment.Secret)))
	return enrollment.Secret
}

func TestGenerate2FA(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser(t, "alice@example.com", "pw")

	enrollment, err := env.Auth.Generate2FA(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.OtpauthURL, "otpauth://totp/")
	require.Contains(t, enrollment.OtpauthURL, "alice%40example.com")
	require.Equal(t, "Loom", enrollment.Issuer)

	// The QR code is a decodable PNG of the expected size.
	img, err := png.Decode(bytes.NewReader(enrollment.QRCodePNG))
	require.NoError(t, err)
	require.Equal(t, qrCodeSize, img.Bounds().Dx())

	// Secret stored, 2FA not yet on.
	stored, err := env.Directory.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, enrollment.Secret, stored.TwoFactorSecret)
	require.False(t, stored.TwoFactorOn)

	// The enrollment mail went out with the QR inline.
	msg, ok := findMessage(env.Notifier.messages(), "Two-factor authentication setup")
	require.True(t, ok)
	require.Contains(t, msg.HTML, "data:image/png;base64,")

	t.Run("re-provision replaces the pending secret", func(t *testing.T) {
		again, err := env.Auth.Generate2FA(ctx, user.ID)
		require.NoError(t, err)
		require.NotEqual(t, enrollment.Secret, again.Secret)
	})
}

func TestVerify2FA(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser(t, "alice@example.com", "pw")

	t.Run("confirm before provision is rejected", func(t *testing.T) {
		require.ErrorIs(t, env.Auth.Verify2FA(ctx, user.ID, "123456"), ErrTwoFactorNotProvisioned)
	})

	enrollment, err := env.Auth.Generate2FA(ctx, user.ID)
	require.NoError(t, err)

	t.Run("wrong code does not enable", func(t *testing.T) {
		require.ErrorIs(t, env.Auth.Verify2FA(ctx, user.ID, "000000"), ErrInvalidTOTPCode)

		stored, err := env.Directory.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.False(t, stored.TwoFactorOn)
	})

	require.NoError(t, env.Auth.Verify2FA(ctx, user.ID, totpCode(t, enrollment.Secret)))

	stored, err := env.Directory.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.TwoFactorOn)

	t.Run("confirming twice is rejected", func(t *testing.T) {
		require.ErrorIs(t, env.Auth.Verify2FA(ctx, user.ID, totpCode(t, enrollment.Secret)), ErrTwoFactorEnabled)
	})
}

func TestTOTPAcceptsAdjacentSteps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser(t, "alice@example.com", "pw")

	enrollment, err := env.Auth.Generate2FA(ctx, user.ID)
	require.NoError(t, err)

	// Codes from the neighbouring 30s steps are accepted, two steps out is
	// not.
	for _, offset := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		code, err := totp.GenerateCode(enrollment.Secret, time.Now().Add(offset))
		require.NoError(t, err)
		require.True(t, totp.Validate(code, enrollment.Secret), "offset %v", offset)
	}

	stale, err := totp.GenerateCode(enrollment.Secret, time.Now().Add(-90*time.Second))
	require.NoError(t, err)
	require.False(t, totp.Validate(stale, enrollment.Secret))
}

func TestDisable2FA(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser(t, "alice@example.com", "pw")
	secret := enableTwoFactor(t, env, user.ID)

	t.Run("requires a valid code", func(t *testing.T) {
		require.ErrorIs(t, env.Auth.Disable2FA(ctx, user.ID, "000000"), ErrInvalidTOTPCode)
	})

	require.NoError(t, env.Auth.Disable2FA(ctx, user.ID, totpCode(t, secret)))

	stored, err := env.Directory.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, stored.TwoFactorOn)
	require.Empty(t, stored.TwoFactorSecret)

	// Login no longer demands the second factor.
	res, err := env.Auth.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	require.False(t, res.Requires2FA)
	require.NotNil(t, res.Tokens)

	t.Run("disabling again is rejected", func(t *testing.T) {
		require.ErrorIs(t, env.Auth.Disable2FA(ctx, user.ID, totpCode(t, secret)), ErrTwoFactorNotEnabled)
	})
}
