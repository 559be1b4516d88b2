package auth_test

import (
	"net/http"
	"testing"

	"github.com/loomchat/loom/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRefreshRotation tests the refresh token lifecycle:
// 1. Register to obtain an initial pair
// 2. Refresh and verify both tokens rotate
// 3. Verify the consumed refresh token is rejected on replay
func TestRefreshRotation(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	_, tokens := registerUser(t, client, "refresh")

	rotated, err := client.Refresh(t.Context(), tokens.RefreshToken)
	require.NoError(t, err)
	assertTokenResponse(t, rotated)

	require.NotEqual(t, tokens.AccessToken, rotated.AccessToken, "Access token should be rotated")
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken, "Refresh token should be rotated")

	// Replaying the consumed value must fail
	_, err = client.Refresh(t.Context(), tokens.RefreshToken)
	assertAPIError(t, err, http.StatusUnauthorized, "invalid_token")

	// The rotated value still works
	_, err = client.Refresh(t.Context(), rotated.RefreshToken)
	require.NoError(t, err, "Rotated refresh token should be usable")
}

// TestLogoutKillsRefreshToken verifies a logged-out refresh token can no
// longer be exchanged, and that logout itself never fails.
func TestLogoutKillsRefreshToken(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	_, tokens := registerUser(t, client, "logout")

	require.NoError(t, client.Logout(t.Context(), tokens.RefreshToken))

	_, err := client.Refresh(t.Context(), tokens.RefreshToken)
	assertAPIError(t, err, http.StatusUnauthorized, "invalid_token")

	// Logout is idempotent: repeating it or handing it garbage still succeeds
	require.NoError(t, client.Logout(t.Context(), tokens.RefreshToken), "Repeated logout should succeed")
	require.NoError(t, client.Logout(t.Context(), "garbage-token-value"), "Logout with unknown token should succeed")
}
