package http

import (
	"errors"
	"net/http"

	"github.com/loomchat/loom/internal/auth/domain"
	"github.com/loomchat/loom/internal/auth/service"
	"github.com/loomchat/loom/internal/auth/store"
	"github.com/loomchat/loom/pkg/authsdk"
	"github.com/loomchat/loom/pkg/httpx"
	"github.com/loomchat/loom/pkg/slogx"
)

// AuthHandler handles the credential and token lifecycle endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register a new account
//	@Description	Creates the account, emails a verification link and returns an initial token pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"Account details"
//	@Success		201		{object}	authsdk.RegisterResponse	"Tokens and user"
//	@Failure		400		{object}	authsdk.APIError			"Malformed request"
//	@Failure		409		{object}	authsdk.APIError			"Email or username taken"
//	@Failure		500		{object}	authsdk.APIError			"Internal server error"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RegisterRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WithDescription("email, username and password are required").WriteError(w)
		return
	}

	pair, user, err := h.AuthService.Register(ctx, service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		Tokens: tokenResponse(pair),
		User:   userResponse(user),
	})
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in with email and password
//	@Description	Issues a token pair, or requires_2fa when the account has two-factor enabled.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse	"Tokens, or requires_2fa"
//	@Failure		400		{object}	authsdk.APIError		"Malformed request"
//	@Failure		401		{object}	authsdk.APIError		"Invalid credentials"
//	@Failure		500		{object}	authsdk.APIError		"Internal server error"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse(res))
}

// HandleLoginWith2FA handles POST /v1/auth/login/2fa
//
//	@Summary		Log in with email, password and TOTP code
//	@Description	Completes a two-factor login in a single call. The issued access token carries a verified second factor.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginWith2FARequest	true	"Credentials and code"
//	@Success		200		{object}	authsdk.LoginResponse		"Tokens"
//	@Failure		400		{object}	authsdk.APIError			"Malformed request"
//	@Failure		401		{object}	authsdk.APIError			"Invalid credentials or code"
//	@Failure		500		{object}	authsdk.APIError			"Internal server error"
//	@Router			/v1/auth/login/2fa [post].
func (h *AuthHandler) HandleLoginWith2FA(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginWith2FARequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.AuthService.LoginWith2FA(r.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse(res))
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Rotate a refresh token
//	@Description	Exchanges a live refresh token for a new pair. The presented value is revoked in the same transaction; of two concurrent calls with the same value exactly one succeeds.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.TokenResponse	"New token pair"
//	@Failure		400		{object}	authsdk.APIError		"Malformed request"
//	@Failure		401		{object}	authsdk.APIError		"Unknown, expired, revoked or already-rotated token"
//	@Failure		500		{object}	authsdk.APIError		"Internal server error"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WithDescription("refresh_token is required").WriteError(w)
		return
	}

	pair, err := h.AuthService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Log out
//	@Description	Revokes the refresh token. Always succeeds, regardless of the token's state.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LogoutRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.MessageResponse	"Logged out"
//	@Failure		400		{object}	authsdk.APIError		"Malformed request"
//	@Failure		500		{object}	authsdk.APIError		"Internal server error"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LogoutRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "logged out"})
}

// HandlePasswordResetRequest handles POST /v1/auth/password-reset/request
//
//	@Summary		Request a password reset link
//	@Description	Mails a single-use reset link when the address exists. The response is identical either way.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.PasswordResetRequest	true	"Account email"
//	@Success		200		{object}	authsdk.MessageResponse			"Generic acknowledgement"
//	@Failure		400		{object}	authsdk.APIError				"Malformed request"
//	@Failure		500		{object}	authsdk.APIError				"Internal server error"
//	@Router			/v1/auth/password-reset/request [post].
func (h *AuthHandler) HandlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req authsdk.PasswordResetRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message: "if the address exists, a reset link has been sent",
	})
}

// HandlePasswordResetComplete handles POST /v1/auth/password-reset/complete
//
//	@Summary		Complete a password reset
//	@Description	Redeems the single-use reset token, replaces the password and revokes every outstanding refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.PasswordResetCompleteRequest	true	"Token and new password"
//	@Success		200		{object}	authsdk.MessageResponse					"Password replaced"
//	@Failure		400		{object}	authsdk.APIError						"Malformed request"
//	@Failure		401		{object}	authsdk.APIError						"Invalid, expired or already-used token"
//	@Failure		500		{object}	authsdk.APIError						"Internal server error"
//	@Router			/v1/auth/password-reset/complete [post].
func (h *AuthHandler) HandlePasswordResetComplete(w http.ResponseWriter, r *http.Request) {
	var req authsdk.PasswordResetCompleteRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		authsdk.ErrInvalidRequest.WithDescription("token and new_password are required").WriteError(w)
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "password has been reset"})
}

// HandleVerifyEmail handles POST /v1/auth/email/verify
//
//	@Summary		Verify an email address
//	@Description	Redeems a single-use verification token and marks the address verified.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyEmailRequest	true	"Verification token"
//	@Success		200		{object}	authsdk.MessageResponse		"Email verified"
//	@Failure		400		{object}	authsdk.APIError			"Malformed request"
//	@Failure		401		{object}	authsdk.APIError			"Invalid, expired or already-used token"
//	@Failure		500		{object}	authsdk.APIError			"Internal server error"
//	@Router			/v1/auth/email/verify [post].
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyEmailRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.VerifyEmail(r.Context(), req.Token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "email verified"})
}

// HandleResendVerification handles POST /v1/auth/email/resend
//
//	@Summary		Resend the verification email
//	@Description	Issues a fresh verification link, invalidating earlier ones. The response is identical whether or not the address exists or is already verified.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ResendVerificationRequest	true	"Account email"
//	@Success		200		{object}	authsdk.MessageResponse				"Generic acknowledgement"
//	@Failure		400		{object}	authsdk.APIError					"Malformed request"
//	@Failure		500		{object}	authsdk.APIError					"Internal server error"
//	@Router			/v1/auth/email/resend [post].
func (h *AuthHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResendVerificationRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.ResendVerificationEmail(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Message: "if the address exists, a verification link has been sent",
	})
}

func tokenResponse(pair *domain.TokenPair) authsdk.TokenResponse {
	return authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}

func userResponse(u domain.User) authsdk.User {
	return authsdk.User{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		EmailVerified: u.EmailVerified,
		TwoFactorOn:   u.TwoFactorOn,
	}
}

func loginResponse(res domain.LoginResult) authsdk.LoginResponse {
	out := authsdk.LoginResponse{Requires2FA: res.Requires2FA}
	if res.Tokens != nil {
		tokens := tokenResponse(res.Tokens)
		out.Tokens = &tokens
		user := userResponse(res.User)
		out.User = &user
	}
	return out
}

// writeServiceError maps service sentinels onto API error responses; anything
// unrecognised is logged and answered with a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		authsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrInvalidTOTPCode):
		authsdk.ErrInvalidTOTPCode.WriteError(w)
	case errors.Is(err, service.ErrAlreadyRegistered):
		authsdk.ErrAlreadyRegistered.WriteError(w)
	case errors.Is(err, service.ErrTwoFactorNotProvisioned):
		authsdk.ErrInvalidRequest.WithDescription("two-factor authentication has not been provisioned").WriteError(w)
	case errors.Is(err, service.ErrTwoFactorNotEnabled):
		authsdk.ErrInvalidRequest.WithDescription("two-factor authentication is not enabled").WriteError(w)
	case errors.Is(err, service.ErrTwoFactorEnabled):
		authsdk.ErrInvalidRequest.WithDescription("two-factor authentication is already enabled").WriteError(w)
	case errors.Is(err, store.ErrUnavailable):
		// Retry-safe outage, not a bug: 503 tells the caller to try again.
		slogx.FromContext(r.Context()).Error("storage unavailable", "err", err)
		authsdk.ErrStorageUnavailable.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
