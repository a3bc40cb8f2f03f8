package bridge

import (
	"context"
	"errors"
	"log/slog"

	"github.com/specialgraphics/portal/internal/backend"
	"github.com/specialgraphics/portal/internal/config"
	"github.com/specialgraphics/portal/internal/identity"
)

// Method identifies one available sign-in path.
type Method string

const (
	MethodPassword Method = "password"
	MethodProvider Method = "provider"
)

// ErrProviderDisabled is returned when the third-party path is requested but
// was not configured at start-up.
var ErrProviderDisabled = errors.New("provider sign-in is not configured")

// Bridge converts either password or third-party provider credentials into
// one normalized claim set.
type Bridge struct {
	backend  backend.Client
	provider *Provider
	logger   *slog.Logger
}

// New builds the bridge. When the provider configuration is absent the
// provider path is omitted from the available methods instead of failing at
// request time.
func New(client backend.Client, oauthCfg config.OAuthConfig, logger *slog.Logger) *Bridge {
	b := &Bridge{backend: client, logger: logger}
	if oauthCfg.Enabled() {
		b.provider = NewProvider(oauthCfg)
	} else {
		logger.Info("third-party provider not configured, password sign-in only")
	}
	return b
}

// Methods lists the sign-in paths available to visitors.
func (b *Bridge) Methods() []Method {
	methods := []Method{MethodPassword}
	if b.provider != nil {
		methods = append(methods, MethodProvider)
	}
	return methods
}

// ProviderEnabled reports whether the third-party path is available.
func (b *Bridge) ProviderEnabled() bool {
	return b.provider != nil
}

// AuthCodeURL returns the provider redirect URL for the given state nonce.
func (b *Bridge) AuthCodeURL(state string) string {
	if b.provider == nil {
		return ""
	}
	return b.provider.AuthCodeURL(state)
}

// PasswordSignIn is the password credential path: it exchanges the pair with
// the backend and maps the response onto the claim shape. All failures come
// back as errors carrying the backend sentinels; nothing panics past this
// boundary.
func (b *Bridge) PasswordSignIn(ctx context.Context, email, password string) (identity.Claims, error) {
	user, token, err := b.backend.Authenticate(ctx, identity.NormalizeEmail(email), password)
	if err != nil {
		return identity.Claims{}, err
	}
	return Enrich(identity.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Role:    user.Role,
		Token:   token,
		Picture: user.AvatarURL,
	}), nil
}

// Register forwards an account creation to the backend and maps the signed-in
// response like PasswordSignIn.
func (b *Bridge) Register(ctx context.Context, input backend.RegisterInput) (identity.Claims, error) {
	user, token, err := b.backend.Register(ctx, input)
	if err != nil {
		return identity.Claims{}, err
	}
	return Enrich(identity.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Role:    user.Role,
		Token:   token,
		Picture: user.AvatarURL,
	}), nil
}

// ProviderSignIn is the third-party path: it exchanges the authorization
// code, fetches the account profile and maps it onto the claim shape. The
// platform has issued no bearer token at this point, so the claims carry
// none.
func (b *Bridge) ProviderSignIn(ctx context.Context, code string) (identity.Claims, error) {
	if b.provider == nil {
		return identity.Claims{}, ErrProviderDisabled
	}
	profile, err := b.provider.Exchange(ctx, code)
	if err != nil {
		b.logger.Warn("provider handshake failed", "error", err)
		return identity.Claims{}, err
	}
	return Enrich(identity.Claims{
		Email:   identity.NormalizeEmail(profile.Email),
		Name:    profile.Name,
		Picture: profile.Picture,
	}), nil
}

// Enrich applies sign-in defaults without clobbering anything the
// originating path already set: an existing role, token or picture always
// survives enrichment.
func Enrich(c identity.Claims) identity.Claims {
	if !c.Role.Valid() {
		c.Role = identity.RoleBuyer
	}
	return c
}

// Session is the externally visible projection of a signed-in claim set. The
// bearer token is exposed at the top level for downstream API calls.
type Session struct {
	User  identity.User `json:"user"`
	Token string        `json:"token,omitempty"`
}

// Project copies enriched claims onto the session object.
func Project(c identity.Claims) Session {
	return Session{User: c.User(), Token: c.Token}
}
