// Package httpx carries small HTTP helpers shared by service handlers:
// middleware chaining, JSON responses and authentication context keys.
package httpx

import "net/http"

// Middleware wraps an http.Handler with extra behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h in reverse order, so the first middleware
// listed is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Context keys populated by AuthnMiddleware.
type ctxKey string

const (
	// CtxKeyUserID holds the authenticated subject id (string).
	CtxKeyUserID ctxKey = "user_id"

	// CtxKeyTwoFactorVerified holds whether the presented access token was
	// issued after a verified TOTP code (bool).
	CtxKeyTwoFactorVerified ctxKey = "two_factor_verified"
)

// UserID extracts the authenticated subject id from a request context.
// Returns "" when the request was not authenticated.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(CtxKeyUserID).(string)
	return id
}

// TwoFactorVerified reports whether the access token on this request carried
// a verified second factor.
func TwoFactorVerified(r *http.Request) bool {
	v, _ := r.Context().Value(CtxKeyTwoFactorVerified).(bool)
	return v
}
