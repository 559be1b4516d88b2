package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/loomchat/loom/pkg/jwtx"
)

// AuthnMiddleware verifies the bearer access token and injects the subject id
// and two-factor state into the request context. Every verification failure
// collapses into a single 401 so callers can't probe which check failed.
func AuthnMiddleware(verifier jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeyTwoFactorVerified, claims.TwoFactorVerified)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTwoFactor rejects requests whose access token was not issued after a
// verified TOTP code. Must run after AuthnMiddleware.
func RequireTwoFactor() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !TwoFactorVerified(r) {
				WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error":             "two_factor_required",
					"error_description": "this operation requires a two-factor verified session",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "invalid_token",
		"error_description": "missing, invalid or expired access token",
	})
}
