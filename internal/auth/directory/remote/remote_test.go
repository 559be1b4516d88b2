package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/loomchat/loom/internal/auth/directory"
	"github.com/stretchr/testify/require"
)

func TestRemoteFindByID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/users/user-1":
			json.NewEncoder(w).Encode(map[string]any{
				"id":                 "user-1",
				"email":              "alice@example.com",
				"username":           "alice",
				"isActive":           true,
				"isTwoFactorEnabled": true,
				"twoFactorSecret":    "JBSWY3DPEHPK3PXP",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	dir := New(srv.URL)

	u, err := dir.FindByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.True(t, u.Active)
	require.True(t, u.TwoFactorOn)
	require.Equal(t, "JBSWY3DPEHPK3PXP", u.TwoFactorSecret)

	_, err = dir.FindByID(context.Background(), "ghost")
	require.ErrorIs(t, err, directory.ErrNotFound)
}

func TestRemoteCreateMapsConflict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "user-2",
			"email":    body["email"],
			"username": body["username"],
			"isActive": true,
		})
	}))
	t.Cleanup(srv.Close)

	dir := New(srv.URL)

	u, err := dir.Create(context.Background(), directory.NewUser{
		Email: "new@example.com", Username: "new", Password: "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "user-2", u.ID)

	_, err = dir.Create(context.Background(), directory.NewUser{
		Email: "taken@example.com", Username: "taken", Password: "pw",
	})
	require.ErrorIs(t, err, directory.ErrAlreadyExists)
}

func TestRemoteVerifyPassword(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users/user-1/validate-password", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]bool{"valid": body["password"] == "hunter2!"})
	}))
	t.Cleanup(srv.Close)

	dir := New(srv.URL)

	ok, err := dir.VerifyPassword(context.Background(), "user-1", "hunter2!")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = dir.VerifyPassword(context.Background(), "user-1", "wrong")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemotePatchOperations(t *testing.T) {
	t.Parallel()

	var lastPatch map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/users/user-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastPatch))
		json.NewEncoder(w).Encode(map[string]any{"id": "user-1"})
	}))
	t.Cleanup(srv.Close)

	dir := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, dir.SetPassword(ctx, "user-1", "new-password"))
	require.Equal(t, "new-password", lastPatch["password"])

	require.NoError(t, dir.SetTwoFactor(ctx, "user-1", "SECRET", true))
	require.Equal(t, "SECRET", lastPatch["twoFactorSecret"])
	require.Equal(t, true, lastPatch["isTwoFactorEnabled"])

	require.NoError(t, dir.SetTwoFactor(ctx, "user-1", "", false))
	require.Nil(t, lastPatch["twoFactorSecret"])
	require.Equal(t, false, lastPatch["isTwoFactorEnabled"])

	require.NoError(t, dir.SetEmailVerified(ctx, "user-1"))
	require.Equal(t, true, lastPatch["isEmailVerified"])
}
