package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/loomchat/loom/internal/auth/notify"
	"github.com/stretchr/testify/require"
)

var tokenLinkRe = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)

func extractToken(t *testing.T, msg notify.Message) string {
	t.Helper()
	m := tokenLinkRe.FindStringSubmatch(msg.HTML)
	require.Len(t, m, 2, "no token link in message %q", msg.Subject)
	return m[1]
}

func findMessage(msgs []notify.Message, subject string) (notify.Message, bool) {
	for _, m := range msgs {
		if m.Subject == subject {
			return m, true
		}
	}
	return notify.Message{}, false
}

func TestRegister(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	pair, user, err := env.Auth.Register(ctx, RegisterInput{
		Email:     "alice@example.com",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Smith",
		Password:  "correct horse battery staple",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	msgs := env.Notifier.messages()
	_, ok := findMessage(msgs, "Welcome to Loom")
	require.True(t, ok)
	verification, ok := findMessage(msgs, "Verify your email address")
	require.True(t, ok)
	require.Equal(t, "alice@example.com", verification.To)
	require.Contains(t, verification.HTML, "http://localhost:3000/verify-email?token=")

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, _, err := env.Auth.Register(ctx, RegisterInput{
			Email: "alice@example.com", Username: "alice2", Password: "pw",
		})
		require.ErrorIs(t, err, ErrAlreadyRegistered)
	})
}

func TestRegisterThenRefreshThenReplayFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	pair, _, err := env.Auth.Register(ctx, RegisterInput{
		Email: "alice@example.com", Username: "alice", Password: "pw",
	})
	require.NoError(t, err)

	rotated, err := env.Auth.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = env.Auth.RefreshToken(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser(t, "alice@example.com", "hunter2!")

	res, err := env.Auth.Login(ctx, "alice@example.com", "hunter2!")
	require.NoError(t, err)
	require.False(t, res.Requires2FA)
	require.NotNil(t, res.Tokens)
	require.Equal(t, user.ID, res.User.ID)

	claims, err := env.Signer.Verify(res.Tokens.AccessToken)
	require.NoError(t, err)
	require.False(t, claims.TwoFactorVerified)

	t.Run("wrong password and unknown email are the same error", func(t *testing.T) {
		_, err := env.Auth.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = env.Auth.Login(ctx, "ghost@example.com", "hunter2!")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginWith2FAEnabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser(t, "alice@example.com", "hunter2!")
	secret := enableTwoFactor(t, env, user.ID)

	// Password alone withholds tokens and demands the second factor.
	res, err := env.Auth.Login(ctx, "alice@example.com", "hunter2!")
	require.NoError(t, err)
	require.True(t, res.Requires2FA)
	require.Nil(t, res.Tokens)

	// Password + current code issues a verified pair.
	res, err = env.Auth.LoginWith2FA(ctx, "alice@example.com", "hunter2!", totpCode(t, secret))
	require.NoError(t, err)
	require.False(t, res.Requires2FA)
	require.NotNil(t, res.Tokens)

	claims, err := env.Signer.Verify(res.Tokens.AccessToken)
	require.NoError(t, err)
	require.True(t, claims.TwoFactorVerified)

	// A wrong code is rejected even with the right password.
	_, err = env.Auth.LoginWith2FA(ctx, "alice@example.com", "hunter2!", "000000")
	require.ErrorIs(t, err, ErrInvalidTOTPCode)

	// And the right code never excuses a wrong password.
	_, err = env.Auth.LoginWith2FA(ctx, "alice@example.com", "wrong", totpCode(t, secret))
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser(t, "alice@example.com", "old-password")

	// A few live sessions that must all die with the reset.
	s1, err := env.Tokens.IssueAuthTokens(ctx, user.ID, false)
	require.NoError(t, err)
	s2, err := env.Tokens.IssueAuthTokens(ctx, user.ID, false)
	require.NoError(t, err)

	require.NoError(t, env.Auth.RequestPasswordReset(ctx, "alice@example.com"))

	msg, ok := findMessage(env.Notifier.messages(), "Reset your password")
	require.True(t, ok)
	resetToken := extractToken(t, msg)

	require.NoError(t, env.Auth.ResetPassword(ctx, resetToken, "new-password"))

	t.Run("password replaced", func(t *testing.T) {
		_, err := env.Auth.Login(ctx, "alice@example.com", "old-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		res, err := env.Auth.Login(ctx, "alice@example.com", "new-password")
		require.NoError(t, err)
		require.NotNil(t, res.Tokens)
	})

	t.Run("every refresh token revoked atomically", func(t *testing.T) {
		_, err := env.Auth.RefreshToken(ctx, s1.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidToken)
		_, err = env.Auth.RefreshToken(ctx, s2.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("reset token is single use", func(t *testing.T) {
		require.ErrorIs(t, env.Auth.ResetPassword(ctx, resetToken, "again"), ErrInvalidToken)
	})
}

func TestPasswordResetEnumerationResistance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)
	env.newUser(t, "alice@example.com", "pw")

	// Requests for unknown addresses succeed identically and send nothing.
	require.NoError(t, env.Auth.RequestPasswordReset(ctx, "ghost@example.com"))
	require.Empty(t, env.Notifier.messages())

	require.NoError(t, env.Auth.RequestPasswordReset(ctx, "alice@example.com"))
	require.Len(t, env.Notifier.messages(), 1)
}

func TestVerifyEmailFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	_, user, err := env.Auth.Register(ctx, RegisterInput{
		Email: "alice@example.com", Username: "alice", Password: "pw",
	})
	require.NoError(t, err)
	require.False(t, user.EmailVerified)

	msg, ok := findMessage(env.Notifier.messages(), "Verify your email address")
	require.True(t, ok)
	token := extractToken(t, msg)

	require.NoError(t, env.Auth.VerifyEmail(ctx, token))

	verified, err := env.Directory.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, verified.EmailVerified)

	t.Run("verification token is single use", func(t *testing.T) {
		require.ErrorIs(t, env.Auth.VerifyEmail(ctx, token), ErrInvalidToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		require.ErrorIs(t, env.Auth.VerifyEmail(ctx, "never-issued"), ErrInvalidToken)
	})
}

func TestResendVerificationEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t)

	_, _, err := env.Auth.Register(ctx, RegisterInput{
		Email: "alice@example.com", Username: "alice", Password: "pw",
	})
	require.NoError(t, err)

	firstMsg, ok := findMessage(env.Notifier.messages(), "Verify your email address")
	require.True(t, ok)
	firstToken := extractToken(t, firstMsg)

	require.NoError(t, env.Auth.ResendVerificationEmail(ctx, "alice@example.com"))

	msgs := env.Notifier.messages()
	secondToken := extractToken(t, msgs[len(msgs)-1])
	require.NotEqual(t, firstToken, secondToken)

	// The resend invalidated the first token.
	require.ErrorIs(t, env.Auth.VerifyEmail(ctx, firstToken), ErrInvalidToken)
	require.NoError(t, env.Auth.VerifyEmail(ctx, secondToken))

	t.Run("already verified is a silent no-op", func(t *testing.T) {
		before := len(env.Notifier.messages())
		require.NoError(t, env.Auth.ResendVerificationEmail(ctx, "alice@example.com"))
		require.Len(t, env.Notifier.messages(), before)
	})

	t.Run("unknown address gets the same success and no mail", func(t *testing.T) {
		before := len(env.Notifier.messages())
		require.NoError(t, env.Auth.ResendVerificationEmail(ctx, "ghost@example.com"))
		require.Len(t, env.Notifier.messages(), before)
	})
}
