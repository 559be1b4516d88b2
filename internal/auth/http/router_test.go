package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/loomchat/loom/internal/auth/directory/local"
	"github.com/loomchat/loom/internal/auth/notify"
	"github.com/loomchat/loom/internal/auth/service"
	"github.com/loomchat/loom/internal/auth/store/drivers/sqlite"
	"github.com/loomchat/loom/pkg/authsdk"
	"github.com/loomchat/loom/pkg/jwtx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the full stack (sqlite, local directory, services,
// router) behind an httptest server and returns an SDK client against it.
func newTestServer(t *testing.T) *authsdk.Client {
	t.Helper()
	client, _ := newTestStack(t)
	return client
}

// newTestStack is newTestServer plus the underlying store, for tests that
// need to sabotage the backend.
func newTestStack(t *testing.T) (*authsdk.Client, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "loom-auth-test")
	require.NoError(t, err)

	dir := local.New(st)
	tokens := &service.TokenService{
		Signer:     signer,
		Store:      st,
		Issuer:     "loom-auth-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}

	router := NewRouter(signer, "test", st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.AuthService = &service.AuthService{
		Directory:       dir,
		Tokens:          tokens,
		TwoFactor:       &service.TwoFactorService{Directory: dir, Issuer: "Loom"},
		Notifier:        notify.Log{},
		FrontendURL:     "http://localhost:3000",
		ResetTTL:        time.Hour,
		VerificationTTL: time.Hour,
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return authsdk.NewClient(srv.URL), st
}

func register(t *testing.T, client *authsdk.Client, email, password string) *authsdk.RegisterResponse {
	t.Helper()
	resp, err := client.Register(context.Background(), authsdk.RegisterRequest{
		Email:    email,
		Username: email[:len(email)-len("@example.com")],
		Password: password,
	})
	require.NoError(t, err)
	return resp
}

func requireAPIError(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code)
}

func TestHTTPRegisterAndLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestServer(t)

	created := register(t, client, "alice@example.com", "hunter2!")
	require.NotEmpty(t, created.Tokens.AccessToken)
	require.Equal(t, "Bearer", created.Tokens.TokenType)
	require.Equal(t, "alice@example.com", created.User.Email)

	_, err := client.Register(ctx, authsdk.RegisterRequest{
		Email: "alice@example.com", Username: "alice2", Password: "pw",
	})
	requireAPIError(t, err, authsdk.ErrorCodeAlreadyRegistered)

	login, err := client.Login(ctx, "alice@example.com", "hunter2!")
	require.NoError(t, err)
	require.False(t, login.Requires2FA)
	require.NotNil(t, login.Tokens)

	_, err = client.Login(ctx, "alice@example.com", "wrong")
	requireAPIError(t, err, authsdk.ErrorCodeInvalidCredentials)

	_, err = client.Login(ctx, "ghost@example.com", "hunter2!")
	requireAPIError(t, err, authsdk.ErrorCodeInvalidCredentials)
}

func TestHTTPRefreshAndLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestServer(t)
	created := register(t, client, "alice@example.com", "hunter2!")

	rotated, err := client.Refresh(ctx, created.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, created.Tokens.RefreshToken, rotated.RefreshToken)

	_, err = client.Refresh(ctx, created.Tokens.RefreshToken)
	requireAPIError(t, err, authsdk.ErrorCodeInvalidToken)

	require.NoError(t, client.Logout(ctx, rotated.RefreshToken))
	require.NoError(t, client.Logout(ctx, rotated.RefreshToken)) // idempotent

	_, err = client.Refresh(ctx, rotated.RefreshToken)
	requireAPIError(t, err, authsdk.ErrorCodeInvalidToken)
}

func TestHTTPTwoFactorFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestServer(t)
	created := register(t, client, "alice@example.com", "hunter2!")
	access := created.Tokens.AccessToken

	t.Run("endpoints reject missing or garbage tokens", func(t *testing.T) {
		_, err := client.Generate2FA(ctx, "")
		requireAPIError(t, err, authsdk.ErrorCodeInvalidToken)
		_, err = client.Generate2FA(ctx, "not-a-jwt")
		requireAPIError(t, err, authsdk.ErrorCodeInvalidToken)
	})

	enrollment, err := client.Generate2FA(ctx, access)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.NotEmpty(t, enrollment.QRCodePNG)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, client.Verify2FA(ctx, access, code))

	// Plain login now withholds tokens.
	login, err := client.Login(ctx, "alice@example.com", "hunter2!")
	require.NoError(t, err)
	require.True(t, login.Requires2FA)
	require.Nil(t, login.Tokens)

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	verified, err := client.LoginWith2FA(ctx, "alice@example.com", "hunter2!", code)
	require.NoError(t, err)
	require.NotNil(t, verified.Tokens)

	t.Run("disable requires a two-factor verified session", func(t *testing.T) {
		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)

		// The registration-time token was not TOTP-verified.
		err = client.Disable2FA(ctx, access, code)
		requireAPIError(t, err, authsdk.ErrorCodeTwoFactorRequired)

		err = client.Disable2FA(ctx, verified.Tokens.AccessToken, code)
		require.NoError(t, err)
	})

	// After disabling, login issues tokens directly again.
	login, err = client.Login(ctx, "alice@example.com", "hunter2!")
	require.NoError(t, err)
	require.False(t, login.Requires2FA)
}

func TestHTTPEnumerationResistantEndpoints(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestServer(t)
	register(t, client, "alice@example.com", "hunter2!")

	require.NoError(t, client.RequestPasswordReset(ctx, "alice@example.com"))
	require.NoError(t, client.RequestPasswordReset(ctx, "ghost@example.com"))

	require.NoError(t, client.ResendVerificationEmail(ctx, "alice@example.com"))
	require.NoError(t, client.ResendVerificationEmail(ctx, "ghost@example.com"))

	requireAPIError(t, client.ResetPassword(ctx, "never-issued", "new-pw"), authsdk.ErrorCodeInvalidToken)
	requireAPIError(t, client.VerifyEmail(ctx, "never-issued"), authsdk.ErrorCodeInvalidToken)
}

func TestHTTPStorageOutage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, st := newTestStack(t)
	register(t, client, "alice@example.com", "hunter2!")

	// Kill the backend out from under the running server. Callers should
	// see a retryable 503, never a 500 or a mislabelled auth failure.
	require.NoError(t, st.Close())

	_, err := client.Login(ctx, "alice@example.com", "hunter2!")
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeUnavailable, apiErr.Code)
}

func TestHTTPHealthEndpoints(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestServer(t)

	live, err := client.Livez(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := client.Readyz(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}
