package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {
	t.Parallel()

	var received Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/email/send", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	msg := Message{To: "alice@example.com", Subject: "hi", HTML: "<p>hi</p>"}
	require.NoError(t, c.Send(context.Background(), msg))
	require.Equal(t, msg, received)
}

func TestClientSendErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	err := c.Send(context.Background(), Message{To: "alice@example.com"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestLogNotifierNeverFails(t *testing.T) {
	t.Parallel()

	require.NoError(t, Log{}.Send(context.Background(), Message{To: "alice@example.com"}))
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	t.Run("welcome", func(t *testing.T) {
		msg, err := Welcome("alice@example.com", "alice")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", msg.To)
		require.Contains(t, msg.HTML, "alice")
	})

	t.Run("verification carries the link", func(t *testing.T) {
		msg, err := EmailVerification("alice@example.com", "alice", "https://app.example/verify-email?token=abc")
		require.NoError(t, err)
		require.Contains(t, msg.HTML, "https://app.example/verify-email?token=abc")
	})

	t.Run("password reset carries the link", func(t *testing.T) {
		msg, err := PasswordReset("alice@example.com", "alice", "https://app.example/reset-password?token=abc")
		require.NoError(t, err)
		require.Contains(t, msg.HTML, "reset-password?token=abc")
	})

	t.Run("two factor inlines the QR code", func(t *testing.T) {
		msg, err := TwoFactorEnrollment("alice@example.com", "alice", "JBSWY3DPEHPK3PXP", []byte{0x89, 0x50, 0x4e, 0x47})
		require.NoError(t, err)
		require.Contains(t, msg.HTML, "data:image/png;base64,")
		require.Contains(t, msg.HTML, "JBSWY3DPEHPK3PXP")
	})

	t.Run("template values are escaped", func(t *testing.T) {
		msg, err := Welcome("alice@example.com", `<script>alert("x")</script>`)
		require.NoError(t, err)
		require.False(t, strings.Contains(msg.HTML, "<script>"))
	})
}
