package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client is a typed client for the Loom authentication service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates an auth service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account and returns the initial token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.postJSON(ctx, "/v1/auth/register", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login submits the first factor. When the account has 2FA enabled the
// response carries Requires2FA and no tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.postJSON(ctx, "/v1/auth/login", "", LoginRequest{Email: email, Password: password}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginWith2FA submits both factors in one call.
func (c *Client) LoginWith2FA(ctx context.Context, email, password, code string) (*LoginResponse, error) {
	var out LoginResponse
	req := LoginWith2FARequest{Email: email, Password: password, Code: code}
	if err := c.postJSON(ctx, "/v1/auth/login/2fa", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates a refresh token. The presented value is dead afterwards.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.postJSON(ctx, "/v1/auth/refresh", "", RefreshRequest{RefreshToken: refreshToken}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes a refresh token. Succeeds regardless of the token's state.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.postJSON(ctx, "/v1/auth/logout", "", LogoutRequest{RefreshToken: refreshToken}, nil, http.StatusOK)
}

// RequestPasswordReset asks for a reset link. Succeeds whether or not the
// address exists.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/v1/auth/password-reset/request", "", PasswordResetRequest{Email: email}, nil, http.StatusOK)
}

// ResetPassword redeems a reset token and sets the new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	req := PasswordResetCompleteRequest{Token: token, NewPassword: newPassword}
	return c.postJSON(ctx, "/v1/auth/password-reset/complete", "", req, nil, http.StatusOK)
}

// VerifyEmail redeems a verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.postJSON(ctx, "/v1/auth/email/verify", "", VerifyEmailRequest{Token: token}, nil, http.StatusOK)
}

// ResendVerificationEmail asks for a fresh verification link.
func (c *Client) ResendVerificationEmail(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/v1/auth/email/resend", "", ResendVerificationRequest{Email: email}, nil, http.StatusOK)
}

// Generate2FA provisions a TOTP secret for the authenticated subject.
func (c *Client) Generate2FA(ctx context.Context, accessToken string) (*TwoFactorEnrollResponse, error) {
	var out TwoFactorEnrollResponse
	if err := c.postJSON(ctx, "/v1/2fa/generate", accessToken, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify2FA confirms the pending secret with a current code, enabling 2FA.
func (c *Client) Verify2FA(ctx context.Context, accessToken, code string) error {
	return c.postJSON(ctx, "/v1/2fa/verify", accessToken, TwoFactorCodeRequest{Code: code}, nil, http.StatusOK)
}

// Disable2FA turns the second factor off. Requires an access token minted
// after TOTP verification.
func (c *Client) Disable2FA(ctx context.Context, accessToken, code string) error {
	return c.postJSON(ctx, "/v1/2fa/disable", accessToken, TwoFactorCodeRequest{Code: code}, nil, http.StatusOK)
}

// Livez reports process liveness.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/livez", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz reports dependency readiness.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, "/readyz", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
