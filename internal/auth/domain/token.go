package domain

import "time"

// TokenKind discriminates persisted credential tokens. Tokens of different
// kinds never satisfy each other's lookups.
type TokenKind string

const (
	TokenKindRefresh      TokenKind = "refresh"
	TokenKindReset        TokenKind = "reset"
	TokenKindVerification TokenKind = "verification"
)

// Valid reports whether k is one of the known token kinds.
func (k TokenKind) Valid() bool {
	switch k {
	case TokenKindRefresh, TokenKindReset, TokenKindVerification:
		return true
	}
	return false
}

// Token models a persisted credential token row. The opaque value handed to
// the client is never stored; TokenHash is its SHA-256 fingerprint and the
// unique lookup key. Revoked is monotonic: once true it never reverts, and no
// field other than Revoked/UpdatedAt ever changes after creation.
type Token struct {
	ID        string
	OwnerID   string
	TokenHash string
	Kind      TokenKind
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Usable reports whether the token is still live at the given instant.
// Expiry is decided by timestamp comparison here, never by whether the row
// has been physically purged.
func (t Token) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

// TokenPair is what authentication operations return: a short-lived signed
// access token and a long-lived opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn    int64  `json:"expires_in"`           // access-token lifetime in seconds
}
