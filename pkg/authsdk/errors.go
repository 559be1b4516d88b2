package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/loomchat/loom/pkg/httpx"
)

// API error codes used across the auth service.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInvalidTOTPCode    = "invalid_totp_code"
	ErrorCodeTwoFactorRequired  = "two_factor_required"
	ErrorCodeAlreadyRegistered  = "already_registered"
	ErrorCodeServerError        = "server_error"
	ErrorCodeUnavailable        = "temporarily_unavailable"
)

// APIError is the auth service's error envelope. It is used by the server to
// write error responses and by the SDK client to represent them.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "invalid_token")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WithDescription returns a copy of the error with a different description.
// The code and status are what clients key on; descriptions are advisory.
func (e *APIError) WithDescription(desc string) *APIError {
	clone := *e
	clone.Description = desc
	return &clone
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest covers malformed bodies and missing parameters.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is the single answer to every failed password
	// check: unknown email, wrong password or deactivated account.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	// ErrInvalidToken is the single answer to every failed token check:
	// unknown, malformed, expired, revoked or already used.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the token is invalid or expired",
	}

	// ErrInvalidTOTPCode is returned when a submitted TOTP code does not
	// verify against the enrolled secret.
	ErrInvalidTOTPCode = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidTOTPCode,
		Description: "the two-factor code is invalid",
	}

	// ErrTwoFactorRequired is returned when an operation demands an access
	// token minted after TOTP verification.
	ErrTwoFactorRequired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTwoFactorRequired,
		Description: "this operation requires a two-factor verified session",
	}

	// ErrAlreadyRegistered is returned when the email or username is taken.
	ErrAlreadyRegistered = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyRegistered,
		Description: "an account with this email or username already exists",
	}

	// ErrServerError is the catch-all for unexpected internal failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "an unexpected error occurred",
	}

	// ErrStorageUnavailable signals a storage backend outage. The request
	// did not take effect and is safe to retry.
	ErrStorageUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUnavailable,
		Description: "the service is temporarily unavailable, retry shortly",
	}
)

// parseErrorResponse turns a non-2xx response body into a typed *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
}
