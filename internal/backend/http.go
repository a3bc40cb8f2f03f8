package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/specialgraphics/portal/internal/identity"
)

// HTTPClient talks to the identity backend over its JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a connector for the backend at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e envelope) message() string {
	if e.Error != nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return "request rejected"
}

// authResponse is the shape of the authenticate and register responses.
type authResponse struct {
	User  identity.User `json:"user"`
	Token string        `json:"token"`
}

// Authenticate exchanges credentials for the account record and bearer token.
func (c *HTTPClient) Authenticate(ctx context.Context, email, password string) (identity.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body)
	if err != nil {
		return identity.User{}, "", err
	}
	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return identity.User{}, "", fmt.Errorf("%w: decode login response: %v", ErrDenied, err)
	}
	return resp.User, resp.Token, nil
}

// CurrentUser resolves the account owning the bearer token.
func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (identity.User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil)
	if err != nil {
		return identity.User{}, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return identity.User{}, fmt.Errorf("%w: decode me response: %v", ErrDenied, err)
	}
	if !env.Success {
		return identity.User{}, fmt.Errorf("%w: %s", ErrDenied, env.message())
	}
	var user identity.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return identity.User{}, fmt.Errorf("%w: decode user payload: %v", ErrDenied, err)
	}
	return user, nil
}

// SignOut invalidates the token server-side. Fire and forget for callers.
func (c *HTTPClient) SignOut(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil)
	return err
}

// Register creates an account and returns it signed in.
func (c *HTTPClient) Register(ctx context.Context, input RegisterInput) (identity.User, string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/auth/register", "", input)
	if err != nil {
		return identity.User{}, "", err
	}
	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return identity.User{}, "", fmt.Errorf("%w: decode register response: %v", ErrDenied, err)
	}
	return resp.User, resp.Token, nil
}

// do performs one backend round trip. Transport failures map to
// ErrUnavailable, non-2xx answers to ErrDenied carrying the envelope message.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
			return nil, fmt.Errorf("%w: %s", ErrDenied, env.message())
		}
		return nil, fmt.Errorf("%w: status %d", ErrDenied, resp.StatusCode)
	}

	return raw, nil
}
