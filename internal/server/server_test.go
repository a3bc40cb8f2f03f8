package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/specialgraphics/portal/internal/backend"
	"github.com/specialgraphics/portal/internal/config"
	"github.com/specialgraphics/portal/internal/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppName:        "portal-test",
		AppEnv:         "development",
		Port:           "0",
		SessionSecret:  "test-secret",
		SessionTTL:     time.Hour,
		BackendTimeout: time.Second,
	}
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "sg_session" {
			return cookie
		}
	}
	t.Fatalf("response carries no session cookie")
	return nil
}

// Full sign-in lifecycle: demo admin login, guarded admin area, logout,
// redirect back to the sign-in page.
func TestAdminLoginLifecycle(t *testing.T) {
	srv, err := New(testConfig(), nil, backend.NewStub(), logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	app := srv.app

	// 1. sign in with the demo admin account
	login := httptest.NewRequest(fiber.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"admin@specialgraphics.com","password":"Admin123!"}`))
	login.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(login)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status %d", resp.StatusCode)
	}
	var loginBody struct {
		Success bool `json:"success"`
		Data    struct {
			User struct {
				Role string `json:"role"`
			} `json:"user"`
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginBody); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if !loginBody.Success || loginBody.Data.User.Role != "admin" || loginBody.Data.Token != "local-admin-token" {
		t.Fatalf("unexpected login body: %+v", loginBody)
	}
	cookie := sessionCookie(t, resp)

	// 2. the admin guard admits the session
	adminReq := httptest.NewRequest(fiber.MethodGet, "/admin/", nil)
	adminReq.AddCookie(cookie)
	resp, err = app.Test(adminReq)
	if err != nil {
		t.Fatalf("admin request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin status %d", resp.StatusCode)
	}

	// 3. sign out
	logout := httptest.NewRequest(fiber.MethodPost, "/api/v1/auth/logout", nil)
	logout.AddCookie(cookie)
	resp, err = app.Test(logout)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout status %d", resp.StatusCode)
	}

	// 4. the same guard now redirects to the sign-in page
	adminReq = httptest.NewRequest(fiber.MethodGet, "/admin/", nil)
	adminReq.AddCookie(cookie)
	resp, err = app.Test(adminReq)
	if err != nil {
		t.Fatalf("admin request after logout: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected redirect after logout, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("expected /login, got %q", loc)
	}
}

func TestMeUnauthenticatedRendersFailureEnvelope(t *testing.T) {
	srv, err := New(testConfig(), nil, backend.NewStub(), logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	resp, err := srv.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, raw)
	}
	if body.Success || body.Error.Message == "" {
		t.Fatalf("unexpected envelope: %s", raw)
	}
}

func TestFailedLoginAdvertisesDemoAccounts(t *testing.T) {
	srv, err := New(testConfig(), nil, backend.NewStub(), logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	login := httptest.NewRequest(fiber.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"someone@example.com","password":"nope"}`))
	login.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := srv.app.Test(login)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "admin@specialgraphics.com") {
		t.Fatalf("expected demo credential hint, got %s", raw)
	}
}

func TestSignInMethodsListedWithoutProvider(t *testing.T) {
	srv, err := New(testConfig(), nil, backend.NewStub(), logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	resp, err := srv.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/auth/methods", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "password") || strings.Contains(string(raw), "provider") {
		t.Fatalf("expected password-only methods, got %s", raw)
	}
}
