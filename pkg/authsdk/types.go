package authsdk

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Password  string `json:"password"`
}

// LoginRequest is the first factor.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginWith2FARequest carries both factors in one call.
type LoginWith2FARequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes a refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PasswordResetRequest asks for a reset link.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetCompleteRequest redeems the reset token.
type PasswordResetCompleteRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// VerifyEmailRequest redeems a verification token.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// ResendVerificationRequest asks for a fresh verification link.
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// TwoFactorCodeRequest carries a TOTP code for verify/disable.
type TwoFactorCodeRequest struct {
	Code string `json:"code"`
}

// TokenResponse is a freshly issued access/refresh pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// User is the public shape of a directory record. Credential and two-factor
// material never appears here.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	TwoFactorOn   bool   `json:"two_factor_enabled"`
}

// LoginResponse answers login and login/2fa. When Requires2FA is set the
// token fields are absent and the client must call login/2fa.
type LoginResponse struct {
	Requires2FA bool           `json:"requires_2fa"`
	Tokens      *TokenResponse `json:"tokens,omitempty"`
	User        *User          `json:"user,omitempty"`
}

// RegisterResponse answers register.
type RegisterResponse struct {
	Tokens TokenResponse `json:"tokens"`
	User   User          `json:"user"`
}

// TwoFactorEnrollResponse is the provisioned TOTP enrollment. The secret and
// QR code are shown exactly once.
type TwoFactorEnrollResponse struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauth_url"`
	QRCodePNG  string `json:"qr_code_png"` // base64-encoded PNG
	Issuer     string `json:"issuer"`
	Account    string `json:"account"`
}

// MessageResponse is a generic acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthChecks reports per-dependency health in readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse answers livez and readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
