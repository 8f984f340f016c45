package identity

import (
	"context"
	"time"
)

// Identity represents the authenticated principal, independent of any
// workspace. The ID is opaque and assigned by the identity provider.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Session is proof of a currently valid identity.
type Session struct {
	Identity  Identity  `json:"identity"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Authenticated reports whether the session proves a signed-in identity.
// A session with an empty token is treated as absent.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// EventKind identifies why a session event was delivered
type EventKind string

const (
	EventSignedIn       EventKind = "signed_in"
	EventTokenRefreshed EventKind = "token_refreshed"
	EventSignedOut      EventKind = "signed_out"
)

// Event is a session change pushed by an EventSource. Session is nil for
// EventSignedOut.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Handler receives session events. Implementations must return promptly and
// must not call back into the source; the source may be holding internal
// locks while delivering.
type Handler func(Event)

// EventSource is the client-side contract of the identity provider.
type EventSource interface {
	// Subscribe registers a handler for session events and returns a
	// function that removes the registration. Events that occur before
	// Subscribe returns are not replayed; callers that need the current
	// state must also query CurrentSession.
	Subscribe(h Handler) (unsubscribe func())

	// CurrentSession returns the session known to the source right now,
	// or nil if no identity is signed in.
	CurrentSession(ctx context.Context) (*Session, error)

	// SignOut invalidates the current session and emits EventSignedOut
	// to all subscribers.
	SignOut(ctx context.Context) error
}

// SessionStore persists the source's session across process restarts.
// Nothing outside the event source reads or writes it.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}
