package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newFakeDiscord(t *testing.T, profileStatus int, profileBody string) (*DiscordProvider, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		assert.Equal(t, "client", r.Form.Get("client_id"))
		assert.Equal(t, "secret", r.Form.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/users/@me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(profileStatus)
		_, _ = w.Write([]byte(profileBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := newDiscordProvider("client", "secret", "https://plates.example.com/auth/discord/callback",
		oauth2.Endpoint{
			AuthURL:   srv.URL + "/oauth2/authorize",
			TokenURL:  srv.URL + "/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		srv.URL+"/users/@me",
	)
	return p, srv
}

func TestDiscordProvider_AuthCodeURL(t *testing.T) {
	p := NewDiscordProvider("client", "secret", "https://plates.example.com/auth/discord/callback")

	u, err := url.Parse(p.AuthCodeURL("st"))
	require.NoError(t, err)
	assert.Equal(t, "discord.com", u.Host)
	q := u.Query()
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "identify", q.Get("scope"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "https://plates.example.com/auth/discord/callback", q.Get("redirect_uri"))
	assert.Equal(t, "st", q.Get("state"))
}

func TestDiscordProvider_Exchange(t *testing.T) {
	p, _ := newFakeDiscord(t, http.StatusOK,
		`{"id":"111","username":"anna","discriminator":"0001","avatar":"a1b2","global_name":"Anna"}`)

	id, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "111", id.ID)
	assert.Equal(t, "anna", id.Username)
	require.NotNil(t, id.Discriminator)
	assert.Equal(t, "0001", *id.Discriminator)
	require.NotNil(t, id.Avatar)
	assert.Equal(t, "a1b2", *id.Avatar)
}

func TestDiscordProvider_ExchangeWithoutAvatar(t *testing.T) {
	p, _ := newFakeDiscord(t, http.StatusOK, `{"id":"111","username":"anna","discriminator":"0","avatar":null}`)

	id, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Nil(t, id.Avatar)
}

func TestDiscordProvider_ExchangeFailures(t *testing.T) {
	cases := []struct {
		name   string
		code   string
		status int
		body   string
	}{
		{"rejected code", "bad-code", http.StatusOK, `{}`},
		{"profile error status", "good-code", http.StatusUnauthorized, `{"message":"401: Unauthorized"}`},
		{"profile not json", "good-code", http.StatusOK, `<html>`},
		{"profile without id", "good-code", http.StatusOK, `{"username":"anna"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newFakeDiscord(t, tc.status, tc.body)

			_, err := p.Exchange(context.Background(), tc.code)
			assert.ErrorIs(t, err, ErrUpstreamIdentity)
		})
	}
}

func TestDiscordProvider_ExchangeNetworkFailure(t *testing.T) {
	p, srv := newFakeDiscord(t, http.StatusOK, `{}`)
	srv.Close()

	_, err := p.Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrUpstreamIdentity)
}
