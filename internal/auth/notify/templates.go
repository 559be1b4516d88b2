package notify

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
)

// Welcome renders the post-registration greeting.
func Welcome(to, username string) (Message, error) {
	html, err := render(welcomeTmpl, map[string]any{"Username": username})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Welcome to Loom", HTML: html}, nil
}

// EmailVerification renders the verify-your-address mail. verifyURL already
// carries the one-time token.
func EmailVerification(to, username, verifyURL string) (Message, error) {
	html, err := render(verificationTmpl, map[string]any{
		"Username": username,
		"Link":     verifyURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Verify your email address", HTML: html}, nil
}

// PasswordReset renders the reset-link mail.
func PasswordReset(to, username, resetURL string) (Message, error) {
	html, err := render(passwordResetTmpl, map[string]any{
		"Username": username,
		"Link":     resetURL,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Reset your password", HTML: html}, nil
}

// TwoFactorEnrollment renders the authenticator setup mail with the QR code
// inlined as a data URI and the secret as a manual-entry fallback.
func TwoFactorEnrollment(to, username, secret string, qrPNG []byte) (Message, error) {
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG)
	html, err := render(twoFactorTmpl, map[string]any{
		"Username": username,
		"Secret":   secret,
		"QRCode":   template.URL(dataURI),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Two-factor authentication setup", HTML: html}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<h1>Welcome to Loom!</h1>
<p>Hello {{.Username}},</p>
<p>Thank you for registering. Your account is ready to use.</p>`))

var verificationTmpl = template.Must(template.New("verification").Parse(`<h1>Verify your email</h1>
<p>Hello {{.Username}},</p>
<p>Please confirm your email address to finish setting up your account:</p>
<p><a href="{{.Link}}">Verify Email</a></p>
<p>If you did not create this account, you can ignore this message.</p>`))

var passwordResetTmpl = template.Must(template.New("password-reset").Parse(`<h1>Password reset</h1>
<p>Hello {{.Username}},</p>
<p>We received a request to reset your password. The link below is valid for a limited time and can be used once:</p>
<p><a href="{{.Link}}">Reset Password</a></p>
<p>If you did not request this, no action is needed.</p>`))

var twoFactorTmpl = template.Must(template.New("two-factor").Parse(`<h1>Two-factor authentication</h1>
<p>Hello {{.Username}},</p>
<p>Scan the QR code below with your authenticator app:</p>
<p><img src="{{.QRCode}}" alt="QR code" width="200" height="200"></p>
<p>Or enter this key manually:</p>
<p><code>{{.Secret}}</code></p>
<p>Then confirm a generated code to finish enabling two-factor authentication.</p>`))
