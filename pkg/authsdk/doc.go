/*
Package authsdk provides a typed client for the Loom authentication service.

# Overview

The package mirrors the service's JSON API one method per endpoint. Create a
Client and call operations directly:

	client := authsdk.NewClient("https://auth.example.com")

	resp, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct horse battery staple",
	})

	login, err := client.Login(ctx, "alice@example.com", "correct horse battery staple")
	if login.Requires2FA {
		login, err = client.LoginWith2FA(ctx, "alice@example.com", "correct horse battery staple", code)
	}

Refresh tokens rotate on every use; keep the value returned by Refresh and
discard the one you presented:

	tokens, err := client.Refresh(ctx, oldRefreshToken)

# Errors

Failed calls return *APIError where the service produced a structured error
response. Match on the Code field or compare against the predefined values:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeInvalidToken {
		// re-authenticate
	}
*/
package authsdk
