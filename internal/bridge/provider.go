package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/specialgraphics/portal/internal/config"
)

// Profile is the account profile returned by the provider handshake.
type Profile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Provider performs the standard authorization-code handshake against the
// configured third-party identity provider.
type Provider struct {
	oauth      *oauth2.Config
	profileURL string
	http       *http.Client
}

// NewProvider builds a provider from the OAuth configuration block.
func NewProvider(cfg config.OAuthConfig) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      []string{"openid", "email", "profile"},
		},
		profileURL: cfg.ProfileURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL returns the provider redirect URL carrying the state nonce.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for provider tokens and fetches the
// account profile.
func (p *Provider) Exchange(ctx context.Context, code string) (Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.http)

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	resp, err := p.oauth.Client(ctx, token).Get(p.profileURL)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch provider profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Profile{}, fmt.Errorf("fetch provider profile: status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("decode provider profile: %w", err)
	}
	return profile, nil
}
