package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"golang.org/x/oauth2"
)

// ErrUpstreamIdentity covers every failure talking to Discord during login.
var ErrUpstreamIdentity = errors.New("identity provider failure")

const discordAPIBase = "https://discord.com/api"

// DiscordEndpoint is Discord's OAuth2 authorization-code endpoint pair.
var DiscordEndpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  discordAPIBase + "/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type discordUser struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator *string `json:"discriminator"`
	Avatar        *string `json:"avatar"`
}

// DiscordProvider runs the OAuth2 authorization-code flow against Discord
// with the "identify" scope.
type DiscordProvider struct {
	oauth      *oauth2.Config
	profileURL string
	httpClient *http.Client
}

func NewDiscordProvider(clientID, clientSecret, redirectURL string) *DiscordProvider {
	return newDiscordProvider(clientID, clientSecret, redirectURL, DiscordEndpoint, discordAPIBase+"/users/@me")
}

func newDiscordProvider(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, profileURL string) *DiscordProvider {
	return &DiscordProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify"},
			Endpoint:     endpoint,
		},
		profileURL: profileURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL is where the browser is sent to start a login.
func (p *DiscordProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for the caller's Discord profile.
func (p *DiscordProvider) Exchange(ctx context.Context, code string) (*auth.Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", ErrUpstreamIdentity, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build profile request: %v", ErrUpstreamIdentity, err)
	}

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %v", ErrUpstreamIdentity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: profile endpoint returned status %d", ErrUpstreamIdentity, resp.StatusCode)
	}

	var user discordUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", ErrUpstreamIdentity, err)
	}
	if user.ID == "" || user.Username == "" {
		return nil, fmt.Errorf("%w: malformed profile", ErrUpstreamIdentity)
	}

	return &auth.Identity{
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Avatar:        user.Avatar,
	}, nil
}
