package domain

import "time"

// User is the subject record as exposed by the User Directory. The auth
// service never owns this data; it reads identity, password-verification
// outcomes and the two-factor fields, and writes back only the two-factor
// fields and verification flags.
type User struct {
	ID              string
	Email           string
	Username        string
	FirstName       string
	LastName        string
	Active          bool
	EmailVerified   bool
	TwoFactorSecret string // base32 TOTP seed; empty when not provisioned
	TwoFactorOn     bool   // secret confirmed, 2FA required at login
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TwoFactorProvisioned reports whether a TOTP secret exists, confirmed or
// not. A secret with TwoFactorOn=false means "provisioned, not yet
// confirmed".
func (u User) TwoFactorProvisioned() bool {
	return u.TwoFactorSecret != ""
}
