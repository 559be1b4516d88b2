package service

import "errors"

// Sentinel errors returned by the services. The HTTP layer maps these onto
// API error responses; anything else is treated as an internal failure.
//
// Credential and token failures deliberately collapse into single sentinels
// so callers cannot distinguish "no such user" from "wrong password", or a
// revoked token from one that never existed.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrInvalidTOTPCode    = errors.New("invalid_totp_code")

	ErrAlreadyRegistered = errors.New("already_registered")

	ErrTwoFactorNotProvisioned = errors.New("two_factor_not_provisioned")
	ErrTwoFactorNotEnabled     = errors.New("two_factor_not_enabled")
	ErrTwoFactorEnabled        = errors.New("two_factor_already_enabled")
)
