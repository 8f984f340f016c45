package oidcsource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaydesk/relaydesk/pkg/identity"
)

// newFakeProvider serves just enough OIDC discovery metadata for New to
// succeed.
func newFakeProvider(t *testing.T) *httptest.Server {
	t.Helper()

	r := mux.NewRouter()
	var server *httptest.Server
	r.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 server.URL,
			"authorization_endpoint": server.URL + "/authorize",
			"token_endpoint":         server.URL + "/token",
			"jwks_uri":               server.URL + "/keys",
			"response_types_supported": []string{"code"},
			"subject_types_supported":  []string{"public"},
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	server = httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func newTestSource(t *testing.T) *Source {
	t.Helper()
	provider := newFakeProvider(t)

	src, err := New(context.Background(), Config{
		IssuerURL:    provider.URL,
		ClientID:     "relaydesk-console",
		ClientSecret: "secret",
		RedirectURL:  "http://127.0.0.1:7777/callback",
	}, nil, nil)
	require.NoError(t, err)
	t.Cleanup(src.Close)
	return src
}

func TestNewDiscoversProvider(t *testing.T) {
	src := newTestSource(t)
	assert.NotNil(t, src.verifier)
	assert.Equal(t, []string{"openid", "email", "profile"}, src.oauth2Config.Scopes)
}

func TestNewDiscoveryFailure(t *testing.T) {
	_, err := New(context.Background(), Config{
		IssuerURL: "http://127.0.0.1:1",
		ClientID:  "relaydesk-console",
	}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to discover OIDC provider")
}

func TestAuthCodeURL(t *testing.T) {
	src := newTestSource(t)

	raw := src.AuthCodeURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "relaydesk-console", q.Get("client_id"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://127.0.0.1:7777/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "openid")
}

func TestSignOutWithoutSession(t *testing.T) {
	src := newTestSource(t)

	var events []identity.Event
	src.Subscribe(func(ev identity.Event) { events = append(events, ev) })

	require.NoError(t, src.SignOut(context.Background()))
	require.Len(t, events, 1)
	assert.Equal(t, identity.EventSignedOut, events[0].Kind)
}
