// Package oidcsource implements an identity.EventSource backed by an
// OpenID Connect provider. The console drives the authorization-code flow
// through it: AuthCodeURL starts the browser hop, Exchange turns the
// returned code into a verified session, and a background loop keeps the
// access token fresh until sign-out.
package oidcsource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/relaydesk/relaydesk/pkg/identity"
)

// refreshSkew is how long before token expiry a refresh is attempted.
const refreshSkew = 30 * time.Second

// Config holds OIDC provider settings.
type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Source is an OIDC-backed identity.EventSource. Session state and event
// fan-out are delegated to an embedded MemorySource; this type owns the
// provider round trips and the token refresh loop.
type Source struct {
	*identity.MemorySource

	config       Config
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
	log          *logrus.Logger

	mu          sync.Mutex
	stopRefresh func()
}

// New discovers the OIDC provider and prepares the source. No session
// exists until Exchange succeeds or a persisted session is restored.
func New(ctx context.Context, cfg Config, store identity.SessionStore, log *logrus.Logger) (*Source, error) {
	if log == nil {
		log = logrus.New()
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
	}

	return &Source{
		MemorySource: identity.NewMemorySource(store),
		config:       cfg,
		verifier:     verifier,
		oauth2Config: oauth2Config,
		log:          log,
	}, nil
}

// AuthCodeURL returns the provider's authorization endpoint URL for the
// given anti-CSRF state.
func (s *Source) AuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a verified session, installs it
// and emits EventSignedIn. The refresh loop is (re)armed from the token's
// expiry.
func (s *Source) Exchange(ctx context.Context, code string) (*identity.Session, error) {
	oauth2Token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("missing id_token in response")
	}

	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	sess := identity.Session{
		Identity: identity.Identity{
			ID:    idToken.Subject,
			Email: claims.Email,
		},
		Token:     oauth2Token.AccessToken,
		ExpiresAt: oauth2Token.Expiry,
	}

	s.SignIn(ctx, sess)
	s.armRefresh(oauth2Token)

	s.log.WithFields(logrus.Fields{
		"identity": sess.Identity.ID,
		"expires":  sess.ExpiresAt,
	}).Info("OIDC session established")

	return &sess, nil
}

// SignOut stops the refresh loop before delegating to the embedded source.
func (s *Source) SignOut(ctx context.Context) error {
	s.mu.Lock()
	if s.stopRefresh != nil {
		s.stopRefresh()
		s.stopRefresh = nil
	}
	s.mu.Unlock()
	return s.MemorySource.SignOut(ctx)
}

// Close releases the refresh loop. The source delivers no further events.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopRefresh != nil {
		s.stopRefresh()
		s.stopRefresh = nil
	}
}

// armRefresh schedules a token refresh shortly before expiry. Each call
// replaces the previous schedule.
func (s *Source) armRefresh(tok *oauth2.Token) {
	if tok.RefreshToken == "" || tok.Expiry.IsZero() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if s.stopRefresh != nil {
		s.stopRefresh()
	}
	s.stopRefresh = cancel
	s.mu.Unlock()

	delay := time.Until(tok.Expiry) - refreshSkew
	if delay < 0 {
		delay = 0
	}

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		next, err := s.oauth2Config.TokenSource(ctx, tok).Token()
		if err != nil {
			// The provider refused the refresh; the session will
			// expire on its own and the controller sees the stale
			// token fail at the API. Nothing to emit here.
			s.log.WithError(err).Warn("OIDC token refresh failed")
			return
		}

		s.RefreshToken(ctx, next.AccessToken, next.Expiry)
		s.armRefresh(next)
	}()
}
