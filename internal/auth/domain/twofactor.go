package domain

// TwoFactorEnrollment is returned when a TOTP secret is provisioned. The
// secret is shown exactly once; afterwards only codes are accepted.
type TwoFactorEnrollment struct {
	Secret     string // base32 encoded TOTP seed
	OtpauthURL string // otpauth:// provisioning URI for authenticator apps
	QRCodePNG  []byte // PNG rendering of the provisioning URI
	Issuer     string // app name shown in the authenticator
	Account    string // account label (user email)
}

// LoginResult is the orchestrator's answer to a credential submission. When
// the subject has 2FA enabled, tokens are withheld and Requires2FA is set;
// the caller must complete login with a TOTP code.
type LoginResult struct {
	Tokens      *TokenPair
	User        User
	Requires2FA bool
}
