package http

import (
	"encoding/base64"
	"net/http"

	"github.com/loomchat/loom/internal/auth/service"
	"github.com/loomchat/loom/pkg/authsdk"
	"github.com/loomchat/loom/pkg/httpx"
)

// TwoFactorHandler handles the TOTP enrollment endpoints. All of them run
// behind AuthnMiddleware and act on the authenticated subject.
type TwoFactorHandler struct {
	AuthService *service.AuthService
}

// HandleGenerate handles POST /v1/2fa/generate
//
//	@Summary		Provision a TOTP secret
//	@Description	Generates a TOTP secret for the authenticated subject and returns it with a QR code. 2FA is not enabled until the code is verified; calling again replaces the pending secret.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.TwoFactorEnrollResponse	"Secret, otpauth URL and QR code"
//	@Failure		400	{object}	authsdk.APIError				"Two-factor already enabled"
//	@Failure		401	{object}	authsdk.APIError				"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.APIError				"Internal server error"
//	@Router			/v1/2fa/generate [post].
func (h *TwoFactorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserID(r)
	if userID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	enrollment, err := h.AuthService.Generate2FA(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TwoFactorEnrollResponse{
		Secret:     enrollment.Secret,
		OtpauthURL: enrollment.OtpauthURL,
		QRCodePNG:  base64.StdEncoding.EncodeToString(enrollment.QRCodePNG),
		Issuer:     enrollment.Issuer,
		Account:    enrollment.Account,
	})
}

// HandleVerify handles POST /v1/2fa/verify
//
//	@Summary		Confirm the pending TOTP secret
//	@Description	Verifies a current code against the pending secret and enables two-factor authentication.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TwoFactorCodeRequest	true	"TOTP code"
//	@Success		200		{object}	authsdk.MessageResponse			"Two-factor enabled"
//	@Failure		400		{object}	authsdk.APIError				"Not provisioned or already enabled"
//	@Failure		401		{object}	authsdk.APIError				"Invalid access token or code"
//	@Failure		500		{object}	authsdk.APIError				"Internal server error"
//	@Router			/v1/2fa/verify [post].
func (h *TwoFactorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserID(r)
	if userID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.TwoFactorCodeRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.Verify2FA(r.Context(), userID, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "two-factor authentication enabled"})
}

// HandleDisable handles POST /v1/2fa/disable
//
//	@Summary		Disable two-factor authentication
//	@Description	Clears the secret and flag. Requires an access token minted after TOTP verification plus a current code.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TwoFactorCodeRequest	true	"TOTP code"
//	@Success		200		{object}	authsdk.MessageResponse			"Two-factor disabled"
//	@Failure		400		{object}	authsdk.APIError				"Not enabled"
//	@Failure		401		{object}	authsdk.APIError				"Invalid access token, unverified session or wrong code"
//	@Failure		500		{object}	authsdk.APIError				"Internal server error"
//	@Router			/v1/2fa/disable [post].
func (h *TwoFactorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserID(r)
	if userID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.TwoFactorCodeRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.Disable2FA(r.Context(), userID, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "two-factor authentication disabled"})
}
