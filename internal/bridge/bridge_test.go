package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/specialgraphics/portal/internal/backend"
	"github.com/specialgraphics/portal/internal/config"
	"github.com/specialgraphics/portal/internal/identity"
	"github.com/specialgraphics/portal/internal/logging"
)

func TestPasswordSignInMapsClaims(t *testing.T) {
	stub := backend.NewStub()
	stub.AuthenticateFunc = func(ctx context.Context, email, password string) (identity.User, string, error) {
		if email != "ada@example.com" {
			t.Fatalf("email not normalized: %q", email)
		}
		return identity.User{ID: 42, Name: "Ada", Email: email, AvatarURL: "https://cdn/a.png"}, "bearer-42", nil
	}
	b := New(stub, config.OAuthConfig{}, logging.Discard())

	claims, err := b.PasswordSignIn(context.Background(), "  ADA@Example.com ", "pw")
	if err != nil {
		t.Fatalf("password sign-in: %v", err)
	}
	if claims.UserID != 42 || claims.Token != "bearer-42" || claims.Picture != "https://cdn/a.png" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	// role absent in the response defaults to buyer
	if claims.Role != identity.RoleBuyer {
		t.Fatalf("expected buyer default, got %s", claims.Role)
	}
}

func TestPasswordSignInPropagatesSentinels(t *testing.T) {
	stub := backend.NewStub() // unreachable
	b := New(stub, config.OAuthConfig{}, logging.Discard())

	if _, err := b.PasswordSignIn(context.Background(), "a@b.c", "pw"); !errors.Is(err, backend.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestEnrichPreservesPathSetFields(t *testing.T) {
	in := identity.Claims{Role: identity.RoleDesigner, Token: "bearer-1", Picture: "pic"}
	out := Enrich(in)
	if out.Role != identity.RoleDesigner || out.Token != "bearer-1" || out.Picture != "pic" {
		t.Fatalf("enrichment clobbered path-set fields: %+v", out)
	}

	defaulted := Enrich(identity.Claims{})
	if defaulted.Role != identity.RoleBuyer {
		t.Fatalf("expected buyer default, got %s", defaulted.Role)
	}
	if defaulted.Token != "" {
		t.Fatalf("enrichment invented a token: %q", defaulted.Token)
	}
}

func TestMethodsOmitProviderWhenUnconfigured(t *testing.T) {
	b := New(backend.NewStub(), config.OAuthConfig{}, logging.Discard())

	methods := b.Methods()
	if len(methods) != 1 || methods[0] != MethodPassword {
		t.Fatalf("expected password only, got %v", methods)
	}
	if b.ProviderEnabled() {
		t.Fatalf("provider should be disabled")
	}
	if _, err := b.ProviderSignIn(context.Background(), "code"); !errors.Is(err, ErrProviderDisabled) {
		t.Fatalf("expected ErrProviderDisabled, got %v", err)
	}
}

func TestMethodsIncludeProviderWhenConfigured(t *testing.T) {
	cfg := config.OAuthConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		AuthURL:      "https://provider/auth",
		TokenURL:     "https://provider/token",
		ProfileURL:   "https://provider/profile",
		RedirectURL:  "https://portal/auth/oauth/callback",
	}
	b := New(backend.NewStub(), cfg, logging.Discard())

	methods := b.Methods()
	if len(methods) != 2 || methods[1] != MethodProvider {
		t.Fatalf("expected provider method, got %v", methods)
	}
	if url := b.AuthCodeURL("state-1"); url == "" {
		t.Fatalf("expected redirect url")
	}
}

func TestProjectExposesTokenTopLevel(t *testing.T) {
	claims := identity.Claims{UserID: 7, Email: "c@d.e", Name: "Cleo", Role: identity.RoleClient, Token: "bearer-7", Picture: "pic"}

	projected := Project(claims)
	if projected.Token != "bearer-7" {
		t.Fatalf("token not exposed at top level: %+v", projected)
	}
	if projected.User.ID != 7 || projected.User.AvatarURL != "pic" {
		t.Fatalf("unexpected user projection: %+v", projected.User)
	}
}
