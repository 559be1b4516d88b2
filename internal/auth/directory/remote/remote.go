// Package remote implements the User Directory against a separate user
// service over HTTP. The auth service owns credentials and tokens; the user
// service owns the records themselves.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/loomchat/loom/internal/auth/directory"
	"github.com/loomchat/loom/internal/auth/domain"
)

type Directory struct {
	baseURL string
	client  *http.Client
}

var _ directory.Directory = (*Directory)(nil)

func New(baseURL string) *Directory {
	return &Directory{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// userPayload is the user service's wire representation.
type userPayload struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Username           string    `json:"username"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	IsActive           bool      `json:"isActive"`
	IsEmailVerified    bool      `json:"isEmailVerified"`
	TwoFactorSecret    string    `json:"twoFactorSecret,omitempty"`
	IsTwoFactorEnabled bool      `json:"isTwoFactorEnabled"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (p userPayload) toDomain() domain.User {
	return domain.User{
		ID:              p.ID,
		Email:           p.Email,
		Username:        p.Username,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Active:          p.IsActive,
		EmailVerified:   p.IsEmailVerified,
		TwoFactorSecret: p.TwoFactorSecret,
		TwoFactorOn:     p.IsTwoFactorEnabled,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (d *Directory) FindByID(ctx context.Context, id string) (domain.User, error) {
	var p userPayload
	err := d.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &p)
	if err != nil {
		return domain.User{}, err
	}
	return p.toDomain(), nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var p userPayload
	err := d.do(ctx, http.MethodGet, "/users/email/"+url.PathEscape(email), nil, &p)
	if err != nil {
		return domain.User{}, err
	}
	return p.toDomain(), nil
}

func (d *Directory) Create(ctx context.Context, nu directory.NewUser) (domain.User, error) {
	body := map[string]string{
		"email":     nu.Email,
		"username":  nu.Username,
		"firstName": nu.FirstName,
		"lastName":  nu.LastName,
		"password":  nu.Password,
	}

	var p userPayload
	if err := d.do(ctx, http.MethodPost, "/users", body, &p); err != nil {
		return domain.User{}, err
	}
	return p.toDomain(), nil
}

func (d *Directory) VerifyPassword(ctx context.Context, userID, password string) (bool, error) {
	body := map[string]string{"password": password}

	var resp struct {
		Valid bool `json:"valid"`
	}
	err := d.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/validate-password", body, &resp)
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

func (d *Directory) SetPassword(ctx context.Context, userID, password string) error {
	return d.patch(ctx, userID, map[string]any{"password": password})
}

func (d *Directory) SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	fields := map[string]any{
		"isTwoFactorEnabled": enabled,
		"twoFactorSecret":    secret,
	}
	if secret == "" {
		fields["twoFactorSecret"] = nil
	}
	return d.patch(ctx, userID, fields)
}

func (d *Directory) SetEmailVerified(ctx context.Context, userID string) error {
	return d.patch(ctx, userID, map[string]any{"isEmailVerified": true})
}

func (d *Directory) patch(ctx context.Context, userID string, fields map[string]any) error {
	var p userPayload
	return d.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID), fields, &p)
}

// do performs a JSON round trip and maps the user service's 404/409 answers
// onto the directory sentinels.
func (d *Directory) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("user service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return directory.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return directory.ErrAlreadyExists
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("user service: unexpected status %d", resp.StatusCode)
	}

	if target == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
